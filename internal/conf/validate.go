// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		func(s *Settings) error { return validateDatabaseSettings(&s.Database) },
		func(s *Settings) error { return validateLoggingSettings(s) },
		func(s *Settings) error { return validateClassificationSettings(&s.Classification) },
		func(s *Settings) error { return validateEBirdSettings(&s.EBird) },
		func(s *Settings) error { return validateAPISettings(&s.API) },
		func(s *Settings) error { return validateTelemetrySettings(&s.Telemetry) },
	}

	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if settings.Registry.Path == "" {
		ve.Errors = append(ve.Errors, "registry path must not be empty")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDatabaseSettings(settings *DatabaseSettings) error {
	var errs []string

	switch settings.Driver {
	case DriverSQLite:
		if settings.Path == "" {
			errs = append(errs, "database path must not be empty for sqlite")
		}
	case DriverMySQL:
		if settings.MySQL.Host == "" {
			errs = append(errs, "mysql host must not be empty")
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, "mysql database must not be empty")
		}
		if settings.MySQL.Port < 1 || settings.MySQL.Port > 65535 {
			errs = append(errs, fmt.Sprintf("mysql port must be between 1 and 65535, got %d", settings.MySQL.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported database driver %q (expected %s or %s)", settings.Driver, DriverSQLite, DriverMySQL))
	}

	if settings.SlowQueryMS < 0 {
		errs = append(errs, "slow query threshold must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("database settings errors: %v", errs)
	}
	return nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

func isValidLogLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}
	return false
}

func validateLoggingSettings(settings *Settings) error {
	var errs []string

	cfg := &settings.Logging
	if cfg.DefaultLevel != "" && !isValidLogLevel(cfg.DefaultLevel) {
		errs = append(errs, fmt.Sprintf("invalid default log level %q", cfg.DefaultLevel))
	}
	if cfg.Console != nil && cfg.Console.Level != "" && !isValidLogLevel(cfg.Console.Level) {
		errs = append(errs, fmt.Sprintf("invalid console log level %q", cfg.Console.Level))
	}
	if cfg.FileOutput != nil && cfg.FileOutput.Enabled && cfg.FileOutput.Path == "" {
		errs = append(errs, "log file path must not be empty when file output is enabled")
	}
	for module, level := range cfg.ModuleLevels {
		if !isValidLogLevel(level) {
			errs = append(errs, fmt.Sprintf("invalid log level %q for module %s", level, module))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("logging settings errors: %v", errs)
	}
	return nil
}

func validateClassificationSettings(settings *ClassificationSettings) error {
	var errs []string

	if settings.DownloadTimeout <= 0 {
		errs = append(errs, "download timeout must be positive")
	}
	if settings.CacheTTL < 0 {
		errs = append(errs, "cache TTL must not be negative")
	}
	if settings.RequestsPerMinute < 0 {
		errs = append(errs, "requests per minute must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("classification settings errors: %v", errs)
	}
	return nil
}

func validateEBirdSettings(settings *EBirdSettings) error {
	if !settings.Enabled {
		return nil
	}

	var errs []string
	if settings.APIKey == "" {
		errs = append(errs, "eBird API key is required when eBird is enabled")
	}
	if !strings.HasPrefix(settings.BaseURL, "http://") && !strings.HasPrefix(settings.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("eBird base URL must be http(s), got %q", settings.BaseURL))
	}
	if settings.Timeout <= 0 {
		errs = append(errs, "eBird timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("eBird settings errors: %v", errs)
	}
	return nil
}

func validateAPISettings(settings *APISettings) error {
	_, port, err := net.SplitHostPort(settings.Listen)
	if err != nil {
		return fmt.Errorf("api listen address %q is invalid: %w", settings.Listen, err)
	}

	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("api listen port %q is invalid", port)
	}
	return nil
}

func validateTelemetrySettings(settings *TelemetrySettings) error {
	if settings.Enabled && settings.DSN == "" {
		return fmt.Errorf("telemetry DSN is required when telemetry is enabled")
	}
	return nil
}
