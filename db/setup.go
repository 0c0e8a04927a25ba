package db

import (
	"github.com/weddingflow/weddingflow/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	tables := []interface{}{
		&models.User{},
		&models.TeamMember{},
		&models.Project{},
		&models.Event{},
		&models.Task{},
		&models.EventChecklist{},
		&models.FileSubmission{},
		&models.UserPreference{},
	}

	return DB.AutoMigrate(tables...)
}
