// Package testutil provides database helpers shared by package tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoestore/internal/database"
)

// ErrInjected is the error returned by statements failed with FailDeletesOn.
var ErrInjected = errors.New("injected failure")

// NewTestDB returns a migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// FailDeletesOn makes every DELETE against table fail with ErrInjected.
func FailDeletesOn(t *testing.T, db *gorm.DB, table string) {
	t.Helper()

	name := "testutil:fail_delete_" + table
	err := db.Callback().Delete().Before("gorm:delete").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
}

// FailCreatesOn makes every INSERT into table fail with ErrInjected.
func FailCreatesOn(t *testing.T, db *gorm.DB, table string) {
	t.Helper()

	name := "testutil:fail_create_" + table
	err := db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
}
