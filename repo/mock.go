package repo

import (
	"math/rand"
	"os"
	"path"
	"strconv"
)

// MockDB returns a migrated in-memory sqlite db.
func MockDB() (Database, error) {
	db, err := NewSqliteDB(":memory:")
	if err != nil {
		return nil, err
	}
	if err := autoMigrateDatabase(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MockRepo returns a repo which uses a tmp data directory and an
// in-memory database.
func MockRepo() (*Repo, error) {
	n := rand.Intn(1000000)
	dataDir := path.Join(os.TempDir(), "animo-test", strconv.Itoa(n))
	return newRepo(dataDir, true)
}
