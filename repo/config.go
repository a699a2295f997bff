package repo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/abihavaraj/animo-sub007/version"
	"github.com/jessevdk/go-flags"
	"github.com/natefinch/lumberjack"
	"github.com/op/go-logging"
)

const (
	defaultConfigFilename = "animo.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "animo.log"

	defaultPushGatewayURL = "https://exp.host/--/api/v2/push/send"
	defaultGatewayAddr    = "127.0.0.1:4102"
)

var (
	// DefaultHomeDir is the default data directory.
	DefaultHomeDir = AppDataDir("animo", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)

	fileLogFormat   = logging.MustStringFormatter(`%{time:2006-01-02T15:04:05} [%{level}] [%{module}] %{message}`)
	stdoutLogFormat = logging.MustStringFormatter(`%{color:reset}%{color}%{time:15:04:05.000} [%{level}] [%{module}] %{message}`)
)

// Config defines the configuration options for the Animo server.
//
// See LoadConfig for details on the configuration load process.
type Config struct {
	ShowVersion    bool     `short:"v" long:"version" description:"Display version information and exit"`
	ConfigFile     string   `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir        string   `short:"d" long:"datadir" description:"Directory to store data"`
	LogDir         string   `long:"logdir" description:"Directory to log output"`
	LogLevel       string   `short:"l" long:"loglevel" description:"Set the logging level [debug, info, notice, warning, error, critical]" default:"info"`
	GatewayAddr    string   `long:"gatewayaddr" description:"Override the default API gateway listen address"`
	PushGatewayURL string   `long:"pushgateway" description:"Override the default push gateway URL"`
	AllowedIPs     []string `long:"allowip" description:"Only allow API connections from these IPs"`
	AuthCookie     string   `long:"authcookie" description:"A cookie value the API will require from clients"`
	APIUsername    string   `long:"apiusername" description:"Basic auth username for the API"`
	APIPassword    string   `long:"apipassword" description:"Basic auth password (sha256 hex) for the API"`
	NoCors         bool     `long:"nocors" description:"Disable CORS headers on API responses"`
	UseSSL         bool     `long:"ssl" description:"Serve the API over SSL"`
	SSLCert        string   `long:"sslcert" description:"Path to the SSL certificate"`
	SSLKey         string   `long:"sslkey" description:"Path to the SSL key"`
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence.
func LoadConfig() (*Config, error) {
	cfg := Config{
		DataDir:        DefaultHomeDir,
		ConfigFile:     defaultConfigFile,
		LogDir:         defaultLogDir,
		GatewayAddr:    defaultGatewayAddr,
		PushGatewayURL: defaultPushGatewayURL,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Errors aside from the help
	// message can be ignored here; they will be caught by the final parse.
	preCfg := cfg
	preParser := flags.NewParser(&cfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := os.Stat(preCfg.ConfigFile); os.IsNotExist(err) {
		if err := createDefaultConfigFile(preCfg.ConfigFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %v\n", err)
		}
	}

	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		configFileError = err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)

	setupLogging(cfg.LogDir, cfg.LogLevel)

	if configFileError != nil {
		log.Warningf("%v", configFileError)
	}
	return &cfg, nil
}

const sampleConfig = `; Animo server configuration.
; Uncomment and edit options as needed. Command line flags take precedence.

; datadir=
; logdir=
; loglevel=info
; gatewayaddr=127.0.0.1:4102
; pushgateway=https://exp.host/--/api/v2/push/send
; allowip=
; authcookie=
; apiusername=
; apipassword=
; nocors=false
`

// createDefaultConfigFile writes a commented sample config to the given
// destination path.
func createDefaultConfigFile(destinationPath string) error {
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(destinationPath, []byte(sampleConfig), 0600)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func setupLogging(logDir, logLevel string) {
	backendStdout := logging.NewLogBackend(os.Stdout, "", 0)
	backendStdoutFormatter := logging.NewBackendFormatter(backendStdout, stdoutLogFormat)

	if logDir != "" {
		rotator := &lumberjack.Logger{
			Filename:   path.Join(logDir, defaultLogFilename),
			MaxSize:    10, // Megabytes
			MaxBackups: 3,
			MaxAge:     30, // Days
		}

		backendFile := logging.NewLogBackend(rotator, "", 0)
		backendFileFormatter := logging.NewBackendFormatter(backendFile, fileLogFormat)
		logging.SetBackend(backendStdoutFormatter, backendFileFormatter)
	} else {
		logging.SetBackend(backendStdoutFormatter)
	}

	var level logging.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = logging.DEBUG
	case "info":
		level = logging.INFO
	case "notice":
		level = logging.NOTICE
	case "warning":
		level = logging.WARNING
	case "error":
		level = logging.ERROR
	case "critical":
		level = logging.CRITICAL
	default:
		level = logging.INFO
	}
	logging.SetLevel(level, "")
}
