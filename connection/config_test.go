package connection_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/fluentql"
	"github.com/zoobzio/fluentql/connection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fluentql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
default: main
connections:
  main:
    driver: mysql
    host: db.internal
    database: app
    user: root
    password: secret
    prefix: app_
    options:
      parseTime: "true"
  reports:
    driver: postgres
    host: reports.internal
    database: reports
`)

	cfg, err := connection.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Default)
	assert.Equal(t, []string{"main", "reports"}, cfg.Names())

	main := cfg.Connections["main"]
	assert.Equal(t, "mysql", main.Driver)
	assert.Equal(t, "db.internal", main.Host)
	assert.Equal(t, 3306, main.Port)
	assert.Equal(t, "app_", main.Prefix)
	assert.Equal(t, map[string]string{"parseTime": "true"}, main.Options)

	assert.Equal(t, 5432, cfg.Connections["reports"].Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
connections:
  main:
    driver: mysql
    host: localhost
    database: app
`)
	t.Setenv("FLUENTQL_CONNECTIONS__MAIN__HOST", "db.prod")
	t.Setenv("FLUENTQL_CONNECTIONS__MAIN__PORT", "3307")

	cfg, err := connection.LoadConfig(path)
	require.NoError(t, err)

	main := cfg.Connections["main"]
	assert.Equal(t, "db.prod", main.Host)
	assert.Equal(t, 3307, main.Port)
	assert.Equal(t, "main", cfg.Default, "single connection becomes the default")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "no connections",
			content: "default: main\n",
			errMsg:  "no connections configured",
		},
		{
			name: "unknown driver",
			content: `
connections:
  main:
    driver: oracle
`,
			errMsg: "unknown driver",
		},
		{
			name: "missing default",
			content: `
default: other
connections:
  main:
    driver: sqlite
    database: app.db
`,
			errMsg: `default connection "other" is not configured`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := connection.LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := connection.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := connection.ConfigFromMap(map[string]any{
		"connections": map[string]any{
			"mssql": map[string]any{
				"driver":   "sqlserver",
				"host":     "sql.internal",
				"database": "app",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "mssql", cfg.Default)
	assert.Equal(t, 1433, cfg.Connections["mssql"].Port)
}

func TestWithDefaults(t *testing.T) {
	tests := []struct {
		driver string
		port   int
		want   int
	}{
		{"mysql", 0, 3306},
		{"MariaDB", 0, 3306},
		{"postgres", 0, 5432},
		{"sqlserver", 0, 1433},
		{"sqlite", 0, 0},
		{"postgres", 6543, 6543},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got := connection.WithDefaults(fluentql.ConnectionDetails{Driver: tt.driver, Port: tt.port})
			assert.Equal(t, tt.want, got.Port)
		})
	}
}
