package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/db?sslmode=disable")
	require.NoError(t, err)
	assert.EqualValues(t, maxConns, cfg.MaxConns)
	assert.Equal(t, maxConnLifetime, cfg.MaxConnLifetime)
	assert.Equal(t, applicationName, cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfigKeepsApplicationName(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/db?application_name=ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfigInvalidDSN(t *testing.T) {
	_, err := poolConfig("postgres://u:p@localhost:notaport/db")
	assert.Error(t, err)
}
