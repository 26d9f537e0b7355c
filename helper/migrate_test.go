package helper

import (
	"net/url"
	"testing"

	"tourbook/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAction(t *testing.T) {
	for _, action := range []string{ActionUp, ActionDown, ActionStepUp, ActionDrop, ActionVersion} {
		assert.True(t, IsAction(action), action)
	}

	assert.False(t, IsAction("sideways"))
	assert.False(t, IsAction(""))
}

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "tour"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Name = "tourbook"

	parsed, err := url.Parse(connectionString(cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()
	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "localhost:5432", parsed.Host)
	assert.Equal(t, "/test_tourbook", parsed.Path)
	assert.Equal(t, "tour", parsed.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestRunnerRejectsUnknownAction(t *testing.T) {
	err := Runner(&config.Config{}, "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration action")
}
