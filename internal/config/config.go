package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rentledger/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Google Drive files holding the two ledger tables
	DriveTransactionsFileID string
	DriveOccupancyFileID    string

	// SQLite blob store
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Vacancy alerts
	VacancyThresholdDays int
	VacancyAlertSchedule string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		DriveTransactionsFileID: getEnv("DRIVE_TRANSACTIONS_FILE_ID", ""),
		DriveOccupancyFileID:    getEnv("DRIVE_OCCUPANCY_FILE_ID", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/rentledger.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "rentledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		VacancyThresholdDays: getEnvInt("VACANCY_THRESHOLD_DAYS", core.DefaultVacancyThresholdDays),
		VacancyAlertSchedule: getEnv("VACANCY_ALERT_SCHEDULE", "0 0 8 * * *"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "drive", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Drive configuration if backend is drive
	if c.DataBackend == "drive" {
		if c.DriveTransactionsFileID == "" {
			errors = append(errors, "DRIVE_TRANSACTIONS_FILE_ID is required when using drive backend")
		}
		if c.DriveOccupancyFileID == "" {
			errors = append(errors, "DRIVE_OCCUPANCY_FILE_ID is required when using drive backend")
		}
		if c.DriveTransactionsFileID != "" && c.DriveTransactionsFileID == c.DriveOccupancyFileID {
			errors = append(errors, "transaction and occupancy file IDs must differ")
		}
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate vacancy alert configuration
	if c.VacancyThresholdDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid vacancy threshold %d: must be at least 1 day", c.VacancyThresholdDays))
	} else if c.VacancyThresholdDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid vacancy threshold %d: must be at most 365 days", c.VacancyThresholdDays))
	}
	if c.VacancyAlertSchedule == "" {
		errors = append(errors, "vacancy alert schedule cannot be empty")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
