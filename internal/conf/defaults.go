// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "lifelists.db")
	v.SetDefault("database.slow_query_ms", 200)
	v.SetDefault("database.mysql.host", "localhost")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.username", "lifelist")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "lifelist")

	v.SetDefault("registry.path", "lifelist_config.yaml")

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.console.stderr", true)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)
	v.SetDefault("logging.flush_interval", 5)

	v.SetDefault("classification.download_timeout", 2*time.Minute)
	v.SetDefault("classification.cache_ttl", time.Hour)
	v.SetDefault("classification.requests_per_minute", 6)
	v.SetDefault("classification.temp_dir", "")

	v.SetDefault("ebird.enabled", false)
	v.SetDefault("ebird.api_key", "")
	v.SetDefault("ebird.base_url", "https://api.ebird.org/v2")
	v.SetDefault("ebird.timeout", 30*time.Second)
	v.SetDefault("ebird.cache_ttl", 24*time.Hour)

	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.include_photos", true)
	v.SetDefault("export.photo_store", "photos")

	v.SetDefault("api.listen", "127.0.0.1:8090")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
	v.SetDefault("telemetry.environment", "production")
}
