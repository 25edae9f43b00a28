// Package migrations applies named schema migrations exactly once, in
// increasing name order, tracked in the migrations table.
package migrations

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/logger"
)

type Migration struct {
	Name string
	Run  func(db *gorm.DB) error
}

// registry holds every known migration. Names must be unique and sort in
// the order the migrations are meant to apply.
var registry = []Migration{
	{
		Name: "0001_create_users",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.UserModel{})
		},
	},
	{
		Name: "0002_create_tickets",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.TicketModel{})
		},
	},
	{
		Name: "0003_create_questions",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.QuestionModel{})
		},
	},
	{
		Name: "0004_create_answers",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.AnswerModel{})
		},
	},
	{
		Name: "0005_create_media_files",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.MediaFileModel{})
		},
	},
	{
		Name: "0006_create_delivery_log",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.DeliveryLogModel{})
		},
	},
}

// Apply runs every pending migration from the registry. Already applied
// names are skipped; a name is recorded in the same transaction that ran it.
func Apply(db *gorm.DB, log logger.Interface) error {
	return apply(db, registry, log)
}

// Status reports applied and pending migration names in apply order.
func Status(db *gorm.DB) (applied []string, pending []string, err error) {
	if err := db.AutoMigrate(&models.MigrationModel{}); err != nil {
		return nil, nil, fmt.Errorf("failed to prepare migrations table: %w", err)
	}

	var appliedRows []models.MigrationModel
	if err := db.Find(&appliedRows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	appliedSet := make(map[string]bool, len(appliedRows))
	for _, row := range appliedRows {
		appliedSet[row.Name] = true
	}

	ordered := make([]Migration, len(registry))
	copy(ordered, registry)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	for _, m := range ordered {
		if appliedSet[m.Name] {
			applied = append(applied, m.Name)
		} else {
			pending = append(pending, m.Name)
		}
	}
	return applied, pending, nil
}

func apply(db *gorm.DB, migrations []Migration, log logger.Interface) error {
	if err := db.AutoMigrate(&models.MigrationModel{}); err != nil {
		return fmt.Errorf("failed to prepare migrations table: %w", err)
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	seen := make(map[string]bool, len(ordered))
	for _, m := range ordered {
		if seen[m.Name] {
			return fmt.Errorf("duplicate migration name %q", m.Name)
		}
		seen[m.Name] = true
	}

	var appliedRows []models.MigrationModel
	if err := db.Find(&appliedRows).Error; err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(appliedRows))
	for _, row := range appliedRows {
		applied[row.Name] = true
	}

	for _, m := range ordered {
		if applied[m.Name] {
			continue
		}

		migration := m
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Run(tx); err != nil {
				return err
			}
			return tx.Create(&models.MigrationModel{Name: migration.Name}).Error
		}); err != nil {
			return fmt.Errorf("migration %q failed: %w", migration.Name, err)
		}

		log.Infow("migration applied", "name", m.Name)
	}

	return nil
}
