package backend

import (
	"fmt"

	"rentledger/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Drive specific
	DriveTransactionsFileID string
	DriveOccupancyFileID    string

	// SQLite specific
	SQLiteDBPath string
}

// Local backends key the two tables by stable names instead of Drive IDs.
const (
	localTransactionsID = "transactions.csv"
	localOccupancyID    = "occupancy.csv"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                    backendType,
		DriveTransactionsFileID: appConfig.DriveTransactionsFileID,
		DriveOccupancyFileID:    appConfig.DriveOccupancyFileID,
		SQLiteDBPath:            appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case DriveBackend:
		if c.DriveTransactionsFileID == "" || c.DriveOccupancyFileID == "" {
			return fmt.Errorf("both Drive file IDs are required for drive backend")
		}
		if c.DriveTransactionsFileID == c.DriveOccupancyFileID {
			return fmt.Errorf("transaction and occupancy file IDs must differ")
		}

	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional validation
	}

	return nil
}
