package cmd

import (
	"errors"
	"os"
	"path"

	"github.com/abihavaraj/animo-sub007/repo"
)

// Init initializes a new Animo data directory at the provided path.
type Init struct {
	DataDir string `short:"d" long:"datadir" description:"Directory to store data"`
	Force   bool   `short:"f" long:"force" description:"Force overwrite existing repo (dangerous!)"`
}

// Execute initializes the data directory and database.
func (x *Init) Execute(args []string) error {
	if x.DataDir == "" {
		x.DataDir = repo.DefaultHomeDir
	}

	if _, err := os.Stat(path.Join(x.DataDir, "version")); !os.IsNotExist(err) && !x.Force {
		return errors.New("repo is already initialized")
	}
	if x.Force {
		os.RemoveAll(x.DataDir)
	}

	r, err := repo.NewRepo(x.DataDir)
	if err != nil {
		return err
	}
	r.Close()
	return nil
}
