package repo

import (
	"os"
	"path"
	"strconv"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/jinzhu/gorm"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const (
	// defaultRepoVersion is the current repo version used for migrations.
	defaultRepoVersion = 1

	// versionFileName is the name of the version file.
	versionFileName = "version"
)

var log = logging.MustGetLogger("REPO")

// Repo is a representation of an Animo data directory. In it we store
// the animo.conf file, the log directory and the sqlite database.
type Repo struct {
	db      Database
	dataDir string
}

// NewRepo returns a Repo for the given data directory, initializing the
// directory and database if they do not exist yet.
func NewRepo(dataDir string) (*Repo, error) {
	return newRepo(dataDir, false)
}

// DB returns the database implementation.
func (r *Repo) DB() Database {
	return r.db
}

// DataDir returns the data directory associated with this repo.
func (r *Repo) DataDir() string {
	return r.dataDir
}

// Close will close the repo and associated database.
func (r *Repo) Close() {
	r.db.Close()
}

// DestroyRepo deletes the entire data directory. Do NOT use this unless
// you are positive you want to wipe all data.
func (r *Repo) DestroyRepo() error {
	if err := r.db.Close(); err != nil {
		return err
	}
	return os.RemoveAll(r.dataDir)
}

func (r *Repo) writeVersion(version int) error {
	versionStr := strconv.Itoa(version)
	return os.WriteFile(path.Join(r.dataDir, versionFileName), []byte(versionStr), os.ModePerm)
}

func newRepo(dataDir string, inMemoryDB bool) (*Repo, error) {
	isNew := false
	if _, err := os.Stat(path.Join(dataDir, versionFileName)); os.IsNotExist(err) {
		isNew = true
	}

	if err := checkWriteable(path.Join(dataDir, "datastore")); err != nil {
		return nil, err
	}

	var (
		db  Database
		err error
	)
	if inMemoryDB {
		db, err = NewSqliteDB(":memory:")
	} else {
		db, err = NewSqliteDB(dataDir)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}

	if err := autoMigrateDatabase(db); err != nil {
		return nil, errors.Wrap(err, "error migrating database")
	}

	r := &Repo{
		dataDir: dataDir,
		db:      db,
	}
	if isNew && !inMemoryDB {
		if err := r.writeVersion(defaultRepoVersion); err != nil {
			return nil, err
		}
		log.Infof("Initialized new data directory at %s", dataDir)
	}
	return r, nil
}

func checkWriteable(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		testfile := path.Join(dir, "test")
		fi, err := os.Create(testfile)
		if err != nil {
			if os.IsPermission(err) {
				return errors.Errorf("%s is not writeable by the current user", dir)
			}
			return errors.Wrap(err, "unexpected error while checking writeablility of repo root")
		}
		fi.Close()
		return os.Remove(testfile)
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0775)
	}

	if os.IsPermission(err) {
		return errors.Errorf("cannot write to %s, incorrect permissions", dir)
	}

	return err
}

func autoMigrateDatabase(db Database) error {
	dbModels := []interface{}{
		&models.NotificationRecord{},
		&models.NotificationPreferences{},
		&models.PushToken{},
		&models.StudioUser{},
		&models.StudioClass{},
		&models.Booking{},
		&models.UserSubscription{},
	}

	return db.Update(func(tx *gorm.DB) error {
		for _, m := range dbModels {
			if err := tx.AutoMigrate(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
