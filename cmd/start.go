package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/abihavaraj/animo-sub007/api"
	"github.com/abihavaraj/animo-sub007/events"
	"github.com/abihavaraj/animo-sub007/notifications"
	"github.com/abihavaraj/animo-sub007/repo"
	"github.com/abihavaraj/animo-sub007/version"
	"github.com/fatih/color"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("CMD")

// Start is the main entry point for the Animo server. The options to
// this command are the same as the server config options.
type Start struct {
	repo.Config
}

// Execute starts the Animo server.
func (x *Start) Execute(args []string) error {
	cfg, err := repo.LoadConfig()
	if err != nil {
		return err
	}

	r, err := repo.NewRepo(cfg.DataDir)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	push := notifications.NewPushClient(cfg.PushGatewayURL, r.DB())
	dispatcher := notifications.NewDispatcher(r.DB(), push, bus, nil)

	listener, err := net.Listen("tcp", cfg.GatewayAddr)
	if err != nil {
		return err
	}

	allowedIPs := make(map[string]bool)
	for _, ip := range cfg.AllowedIPs {
		allowedIPs[ip] = true
	}
	gateway := api.NewGateway(dispatcher, &api.GatewayConfig{
		Listener:   listener,
		NoCors:     cfg.NoCors,
		AllowedIPs: allowedIPs,
		Cookie:     cfg.AuthCookie,
		Username:   cfg.APIUsername,
		Password:   cfg.APIPassword,
		UseSSL:     cfg.UseSSL,
		SSLCert:    cfg.SSLCert,
		SSLKey:     cfg.SSLKey,
	})
	dispatcher.SetNotifyFunc(gateway.NotifyWebsockets)

	notifier := notifications.NewNotifier(bus, dispatcher)
	go notifier.Start()
	go func() {
		if err := gateway.Serve(); err != nil {
			log.Errorf("Gateway error: %s", err)
		}
	}()

	printSplashScreen()
	log.Infof("Data directory: %s", r.DataDir())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	log.Info("Animo server shutting down...")
	notifier.Stop()
	if err := gateway.Close(); err != nil {
		log.Errorf("Error closing gateway: %s", err)
	}
	r.Close()
	return nil
}

func printSplashScreen() {
	blue := color.New(color.FgBlue)
	white := color.New(color.FgWhite)

	for i, l := range []string{
		`    _          _`,
		`   / \   _ __ (_)_ __ ___   ___`,
		`  / _ \ | '_ \| | '_ ` + "`" + ` _ \ / _ \`,
		` / ___ \| | | | | | | | | | (_) |`,
		`/_/   \_\_| |_|_|_| |_| |_|\___/`,
	} {
		if i%2 == 0 {
			if _, err := white.Println(l); err != nil {
				log.Debug(err)
				return
			}
			continue
		}
		if _, err := blue.Println(l); err != nil {
			log.Debug(err)
			return
		}
	}

	blue.DisableColor()
	white.DisableColor()
	fmt.Printf("\nanimo-server v%s\n", version.String())
}
