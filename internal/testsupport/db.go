// Package testsupport opens throwaway databases for package tests.
package testsupport

import (
	"fmt"

	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns an isolated in-memory database with every table
// migrated. A single connection keeps the named memory database alive and
// serializes transactions.
func NewSQLiteDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&userDatamodel.UserCompany{},
		&userDatamodel.UserProject{},
		&companyDatamodel.Company{},
		&projectDatamodel.Project{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// MustSQLiteDB panics on setup failure; intended for BeforeEach blocks.
func MustSQLiteDB() *gorm.DB {
	db, err := NewSQLiteDB()
	if err != nil {
		panic(err)
	}
	return db
}
