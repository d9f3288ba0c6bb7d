package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"postolog/models"
)

// Migrations brings the schema up to date. Safe to run on every start.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240110_create_registros",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Observation{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("registros")
			},
		},
	})
	return m.Migrate()
}
