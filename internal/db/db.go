package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/analysis"
	"github.com/truthcheck/truthcheck/internal/chat"
	"github.com/truthcheck/truthcheck/internal/models"
	"github.com/truthcheck/truthcheck/internal/notify"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&analysis.Job{},
		&chat.Session{},
		&chat.Message{},
		&notify.Notification{},
	)
}
