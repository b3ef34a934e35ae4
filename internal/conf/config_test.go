package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "nested", "config.yaml")

	settings, err := Load(configFile)
	require.NoError(t, err)

	assert.FileExists(t, configFile)
	assert.Equal(t, configFile, settings.ConfigFile())
	assert.Equal(t, DriverSQLite, settings.Database.Driver)
	assert.Equal(t, filepath.Join(dir, "nested", "lifelists.db"), settings.Database.Path)
	assert.Equal(t, filepath.Join(dir, "nested", "lifelist_config.yaml"), settings.Registry.Path)
	assert.Equal(t, 2*time.Minute, settings.Classification.DownloadTimeout)
	assert.Equal(t, 200*time.Millisecond, settings.Database.SlowQueryThreshold())
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Stderr)
	assert.Equal(t, "127.0.0.1:8090", settings.API.Listen)
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  driver: sqlite
  path: /var/lib/lifelist/birds.db
classification:
  download_timeout: 45s
  requests_per_minute: 0
export:
  include_photos: false
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o600))

	settings, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/lifelist/birds.db", settings.Database.Path)
	assert.Equal(t, 45*time.Second, settings.Classification.DownloadTimeout)
	assert.Zero(t, settings.Classification.RequestsPerMinute)
	assert.False(t, settings.Export.IncludePhotos)
	assert.Equal(t, filepath.Join(dir, "photos"), settings.Export.PhotoStore)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	t.Setenv("LIFELIST_API_LISTEN", "0.0.0.0:9999")

	settings, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", settings.API.Listen)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("database: [unterminated"), 0o600))

	_, err := Load(configFile)
	require.Error(t, err)
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	valid := func() *Settings {
		return &Settings{
			Database:       DatabaseSettings{Driver: DriverSQLite, Path: "x.db"},
			Registry:       RegistrySettings{Path: "registry.yaml"},
			Classification: ClassificationSettings{DownloadTimeout: time.Second},
			API:            APISettings{Listen: "127.0.0.1:8090"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"unknown driver", func(s *Settings) { s.Database.Driver = "postgres" }, "unsupported database driver"},
		{"mysql missing host", func(s *Settings) {
			s.Database.Driver = DriverMySQL
			s.Database.MySQL = MySQLSettings{Port: 3306, Database: "lifelist"}
		}, "mysql host"},
		{"bad log level", func(s *Settings) { s.Logging.DefaultLevel = "loud" }, "invalid default log level"},
		{"zero timeout", func(s *Settings) { s.Classification.DownloadTimeout = 0 }, "download timeout"},
		{"ebird without key", func(s *Settings) {
			s.EBird = EBirdSettings{Enabled: true, BaseURL: "https://api.ebird.org/v2", Timeout: time.Second}
		}, "API key"},
		{"bad listen", func(s *Settings) { s.API.Listen = "nope" }, "listen address"},
		{"telemetry without dsn", func(s *Settings) { s.Telemetry.Enabled = true }, "DSN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ResolvePath("/base", ""))
	assert.Equal(t, "/abs/file.db", ResolvePath("/base", "/abs/file.db"))
	assert.Equal(t, filepath.Join("/base", "rel.db"), ResolvePath("/base", "rel.db"))
	assert.Equal(t, "rel.db", ResolvePath("", "rel.db"))
}
