package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/infrastructure/config"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := NewPoolConfig(config.DatabaseConfig{
		Host:            "db",
		Port:            5432,
		User:            "jargas",
		Password:        "p@ss",
		DBName:          "ledger",
		SSLMode:         "disable",
		MaxConns:        15,
		MinConns:        3,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}, "jargas-worker")

	assert.Equal(t, "postgres://jargas:p%40ss@db:5432/ledger?sslmode=disable", cfg.DSN)
	assert.Equal(t, int32(15), cfg.MaxConns)
	assert.Equal(t, int32(3), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, "jargas-worker", cfg.ApplicationName)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{DSN: "postgres://db:notaport/ledger"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database dsn")
}
