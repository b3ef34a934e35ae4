// config.go: settings struct for the lifelist tracker and the functions that load it.
package conf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// Database drivers understood by the datastore.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// EnvPrefix prefixes every environment override, e.g. LIFELIST_DATABASE_PATH.
const EnvPrefix = "LIFELIST"

// MySQLSettings contains connection settings used when database.driver is mysql.
type MySQLSettings struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
}

// DatabaseSettings selects and configures the relational store.
type DatabaseSettings struct {
	Driver      string        `mapstructure:"driver" yaml:"driver"`               // sqlite or mysql
	Path        string        `mapstructure:"path" yaml:"path"`                   // sqlite database file
	SlowQueryMS int           `mapstructure:"slow_query_ms" yaml:"slow_query_ms"` // 0 disables slow query warnings
	MySQL       MySQLSettings `mapstructure:"mysql" yaml:"mysql"`
}

// SlowQueryThreshold returns the slow query threshold as a duration.
func (d *DatabaseSettings) SlowQueryThreshold() time.Duration {
	return time.Duration(d.SlowQueryMS) * time.Millisecond
}

// RegistrySettings locates the lifelist type template document.
type RegistrySettings struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ClassificationSettings controls taxonomy source downloads.
type ClassificationSettings struct {
	DownloadTimeout   time.Duration `mapstructure:"download_timeout" yaml:"download_timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`                     // how long a finished download is reused
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"` // 0 disables rate limiting
	TempDir           string        `mapstructure:"temp_dir" yaml:"temp_dir"`                       // empty uses os.TempDir()
}

// EBirdSettings configures the eBird taxonomy source.
type EBirdSettings struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// ExportSettings controls lifelist export and import.
type ExportSettings struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`                       // default export directory
	IncludePhotos bool   `mapstructure:"include_photos" yaml:"include_photos"` // copy photos next to the exported document
	PhotoStore    string `mapstructure:"photo_store" yaml:"photo_store"`       // where imported photos are copied
}

// APISettings configures the read-only HTTP API.
type APISettings struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// TelemetrySettings controls optional error reporting.
type TelemetrySettings struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// Settings contains all process settings.
type Settings struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`

	Database       DatabaseSettings       `mapstructure:"database" yaml:"database"`
	Registry       RegistrySettings       `mapstructure:"registry" yaml:"registry"`
	Logging        logger.LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Classification ClassificationSettings `mapstructure:"classification" yaml:"classification"`
	EBird          EBirdSettings          `mapstructure:"ebird" yaml:"ebird"`
	Export         ExportSettings         `mapstructure:"export" yaml:"export"`
	API            APISettings            `mapstructure:"api" yaml:"api"`
	Telemetry      TelemetrySettings      `mapstructure:"telemetry" yaml:"telemetry"`

	configFile string // file the settings were read from, runtime value
}

// ConfigFile returns the path of the file the settings were loaded from.
func (s *Settings) ConfigFile() string {
	return s.configFile
}

// Load reads the configuration file and environment overrides into a new Settings value.
// An empty configFile searches the default config paths. A missing file is created with defaults.
func Load(configFile string) (*Settings, error) {
	v := viper.New()

	if err := initViper(v, configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-settings").
			Build()
	}
	settings.configFile = v.ConfigFileUsed()
	settings.resolvePaths()

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper sets defaults, wires environment overrides and reads the configuration file.
func initViper(v *viper.Viper, configFile string) error {
	v.SetConfigType("yaml")
	setDefaultConfig(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("error getting default config paths: %w", err)
		}
		for _, path := range configPaths {
			v.AddConfigPath(path)
		}
		configFile = filepath.Join(configPaths[0], "config.yaml")
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
		return createDefaultConfig(v, configFile)
	}

	return errors.New(err).
		Category(errors.CategoryFileParsing).
		Context("operation", "read-config").
		Context("config_file", configFile).
		Build()
}

// createDefaultConfig writes the current defaults to path and reads them back.
func createDefaultConfig(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "create-config-dir").
			Build()
	}

	if err := v.WriteConfigAs(path); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "write-default-config").
			Build()
	}

	v.SetConfigFile(path)
	return v.ReadInConfig()
}

// resolvePaths makes relative file settings relative to the config file directory
// so the same config works regardless of the working directory.
func (s *Settings) resolvePaths() {
	base := ""
	if s.configFile != "" {
		base = filepath.Dir(s.configFile)
	}
	s.Database.Path = ResolvePath(base, s.Database.Path)
	s.Registry.Path = ResolvePath(base, s.Registry.Path)
	s.Export.PhotoStore = ResolvePath(base, s.Export.PhotoStore)
}
