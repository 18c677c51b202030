// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/yatube/model"
	. "github.com/Luismorlan/yatube/utils/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8

	PostgresDriver = "postgres"
	SqliteDriver   = "sqlite"
)

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the database specified by env.
// DB_DRIVER selects between postgres (default) and sqlite, where DB_NAME is a
// file path.
func GetDBConnection() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == SqliteDriver {
		return getSqliteDB(sqliteFileDSN(os.Getenv("DB_NAME")))
	}
	return GetCustomizedConnection(os.Getenv("DB_NAME"))
}

// GetCustomizedConnection connect to any postgres db
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), dbName, os.Getenv("DB_PORT"))
	return getDB(dsn)
}

func sqliteFileDSN(path string) string {
	return fmt.Sprintf("file:%s?_fk=1", path)
}

// sqliteMemoryDSN names a shared-cache in-memory database so every pooled
// connection of one *gorm.DB sees the same tables.
func sqliteMemoryDSN(dbName string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", dbName)
}

// CreateTempDB creates an in-memory sqlite DB for testing, note that this
// function should only be called in a testing environment with test state
// manager testing.T. The schema is migrated before returning and the DB is
// dropped once the test finishes, user will not need to drop the database
// explicitly.
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dbName := randomTestDBName()
	db, err := getSqliteDB(sqliteMemoryDSN(dbName))
	if err != nil {
		t.Fatalf("fail to create temp DB with name %s: %s", dbName, err)
	}
	// A single connection keeps the in-memory DB alive and avoids sqlite
	// table locks between pooled connections.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp DB %s: %s", dbName, err)
	}
	t.Cleanup(func() {
		dropTempDB(db, dbName)
	})
	return db, dbName
}

// dropTempDB closes every connection of a temp db, which releases the shared
// in-memory database. It can be called multiple times.
func dropTempDB(curDB *gorm.DB, dbName string) {
	if !isTempDB(dbName) {
		Log.Fatal("cannot delete a non-testing DB")
	}
	sqlDB, err := curDB.DB()
	if err != nil {
		Log.Error("cannot get the current SQL DB ", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		Log.Error("cannot close DB ", err)
	}
}

func getDB(connectionString string) (db *gorm.DB, err error) {
	return gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func getSqliteDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// DatabaseSetupAndMigration creates or updates every table the web server
// reads and writes.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
	)
}
