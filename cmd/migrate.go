package cmd

import (
	"catalog-console/pkg/database"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// Migrate runs one goose action against the self-hosted database.
func Migrate(action string, config *utils.Config, logger *zap.Logger) error {
	db, err := database.OpenSQL(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return err
	}

	switch action {
	case "down":
		err = migrator.Down()
	case "status":
		return migrator.Status()
	default:
		err = migrator.Up()
	}
	if err != nil {
		return err
	}

	version, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("Migrations applied", zap.String("action", action), zap.Int64("version", version))
	return nil
}
