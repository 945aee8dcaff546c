package cmd

import (
	"fmt"
	"time"

	"catalog-console/pkg/backend"
	"catalog-console/pkg/database"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// NewBackendClient builds the backend client selected by BACKEND_DRIVER.
func NewBackendClient(config *utils.Config, logger *zap.Logger) (*backend.Client, error) {
	switch config.Backend.Driver {
	case utils.DriverSupabase, "":
		return backend.NewSupabase(backend.SupabaseConfig{
			URL:     config.Supabase.URL,
			AnonKey: config.Supabase.AnonKey,
			Bucket:  config.Storage.Bucket,
			Timeout: time.Duration(config.Supabase.TimeoutSeconds) * time.Second,
		}, nil, logger)

	case utils.DriverPostgres:
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connected successfully")

		store, err := backend.NewFileStore(config.Storage.Dir, config.Storage.PublicBaseURL, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		ttl := time.Duration(config.Session.ExpiryHours) * time.Hour
		return backend.NewPostgres(db, store, ttl, logger), nil

	default:
		return nil, fmt.Errorf("unknown backend driver %q", config.Backend.Driver)
	}
}
