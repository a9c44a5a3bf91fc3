package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/sistemaagil/vistoria/models"
)

// Migrations brings the schema up to date. Each migration runs once and is
// recorded in the migrations table gormigrate maintains.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301_create_vistoria_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Inspection{}, &models.Photo{}, &models.Observation{})
			},
		},
		{
			ID: "20250615_index_photo_listing",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					"CREATE INDEX IF NOT EXISTS idx_fotos_vistoria_listing ON fotos_vistoria (vistoria_id, tipo, categoria, id)",
				).Error
			},
		},
	})
	return m.Migrate()
}
