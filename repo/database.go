package repo

import "github.com/jinzhu/gorm"

// Database exposes the minimal surface needed to read and write the
// studio database atomically.
type Database interface {
	// View invokes the passed function with a read-only view of the
	// database. Any error returned by the function is returned from
	// this method.
	View(fn func(tx *gorm.DB) error) error

	// Update invokes the passed function inside a read-write
	// transaction. An error returned by the function rolls the
	// transaction back and is returned from this method; otherwise the
	// transaction is committed.
	Update(fn func(tx *gorm.DB) error) error

	// Close shuts down the database. It blocks until open transactions
	// have been finalized.
	Close() error
}
