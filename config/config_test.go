package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/invoice-builder/models"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, DriverSQLite, cfg.DBDriver)
				assert.Equal(t, "invoices.db", cfg.DatabaseURL)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, ".", cfg.ExportDir)
			},
		},
		{
			name: "Overrides",
			env: map[string]string{
				"PORT":       "9090",
				"DB_DRIVER":  "MEMORY",
				"LOG_FORMAT": "console",
				"EXPORT_DIR": "/tmp/out",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Port)
				assert.Equal(t, DriverMemory, cfg.DBDriver)
				assert.Equal(t, "console", cfg.LogFormat)
				assert.Equal(t, "/tmp/out", cfg.ExportDir)
			},
		},
		{
			name:        "Unknown Driver",
			env:         map[string]string{"DB_DRIVER": "mongo"},
			expectError: true,
		},
		{
			name:        "Postgres Without URL",
			env:         map[string]string{"DB_DRIVER": "postgres"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT", "EXPORT_DIR"} {
				t.Setenv(key, tt.env[key])
			}

			cfg, err := LoadConfig()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestInitDB(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: DriverMemory})
	require.NoError(t, err)
	assert.Nil(t, db)

	db, err = InitDB(&Config{DBDriver: DriverSQLite, DatabaseURL: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&models.StorageEntry{}))
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
