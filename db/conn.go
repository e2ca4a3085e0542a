// Package db contains things related to the relational datastore
package db

import (
	"fmt"
	"time"

	"taskman/todo-web/model"

	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the schema. MySQL is
// used in production, SQLite for local development. TranslateError is
// enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch driver := viper.GetString("db.driver"); driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			viper.GetString("db.user"),
			viper.GetString("db.password"),
			viper.GetString("db.host"),
			viper.GetString("db.name"),
		)
		dial = mysql.Open(dsn)
	case "sqlite":
		dial = sqlite.Open(viper.GetString("db.file"))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Task{}, model.LogEntry{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	// Each request checks a connection out of this pool and returns it
	// when the operation finishes, errors included
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB, %w", err)
	}

	sqlDB.SetMaxOpenConns(viper.GetInt("db.max_open_conns"))
	sqlDB.SetMaxIdleConns(viper.GetInt("db.max_idle_conns"))
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
