package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// It is loaded once at startup and never mutated afterwards.
type AppConfig struct {
	DatabaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUseTLS   bool
	SMTPUseAuth  bool
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	Recipients   []string

	QueryFile string

	LogFile        string
	LogLevel       string
	LogMaxSizeMB   int
	LogBackupCount int

	// Start of the school year, e.g. September 1st.
	SchoolYearStartMonth time.Month
	SchoolYearStartDay   int
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	// Port 25 for internal relays; 587 with SMTP_USE_TLS=true for external ones.
	cfg.SMTPPort, err = intEnv("SMTP_PORT", 25)
	if err != nil {
		return nil, err
	}

	cfg.SMTPUseTLS, err = boolEnv("SMTP_USE_TLS", false)
	if err != nil {
		return nil, err
	}
	cfg.SMTPUseAuth, err = boolEnv("SMTP_USE_AUTH", false)
	if err != nil {
		return nil, err
	}

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	if cfg.SMTPUseAuth {
		if cfg.SMTPUsername == "" {
			return nil, fmt.Errorf("SMTP_USE_AUTH is enabled but SMTP_USERNAME is not set")
		}
		if cfg.SMTPPassword == "" {
			return nil, fmt.Errorf("SMTP_USE_AUTH is enabled but SMTP_PASSWORD is not set")
		}
	}

	cfg.FromEmail = os.Getenv("FROM_EMAIL")
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("FROM_EMAIL is not set")
	}

	cfg.Recipients = splitRecipients(os.Getenv("EMAIL_RECIPIENTS"))
	if len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("EMAIL_RECIPIENTS is not set")
	}

	cfg.QueryFile = os.Getenv("QUERY_FILE")
	if cfg.QueryFile == "" {
		cfg.QueryFile = "immunization_query.sql"
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = "logs/immunization_automation.log"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.LogMaxSizeMB, err = intEnv("LOG_MAX_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	cfg.LogBackupCount, err = intEnv("LOG_BACKUP_COUNT", 5)
	if err != nil {
		return nil, err
	}

	startMonth, err := intEnv("SCHOOL_YEAR_START_MONTH", 9)
	if err != nil {
		return nil, err
	}
	if startMonth < 1 || startMonth > 12 {
		return nil, fmt.Errorf("invalid SCHOOL_YEAR_START_MONTH: %d", startMonth)
	}
	cfg.SchoolYearStartMonth = time.Month(startMonth)

	cfg.SchoolYearStartDay, err = intEnv("SCHOOL_YEAR_START_DAY", 1)
	if err != nil {
		return nil, err
	}
	if cfg.SchoolYearStartDay < 1 || cfg.SchoolYearStartDay > 31 {
		return nil, fmt.Errorf("invalid SCHOOL_YEAR_START_DAY: %d", cfg.SchoolYearStartDay)
	}

	return cfg, nil
}

func splitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return recipients
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
