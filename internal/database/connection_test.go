package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/matcha-tracker/internal/config"
)

func tcpConfig(driver string) config.DBConfig {
	return config.DBConfig{
		Driver:    driver,
		Host:      "localhost",
		Port:      "5432",
		User:      "postgres",
		Password:  "s3cret",
		Name:      "matcha_db",
		SocketDir: "/cloudsql",
	}
}

func TestPostgresDSN_TCP(t *testing.T) {
	dsn := PostgresDSN(tcpConfig(config.DriverPostgres))
	assert.Equal(t, "host=localhost port=5432 sslmode=disable user=postgres password=s3cret dbname=matcha_db", dsn)
}

func TestPostgresDSN_SocketWinsOverHost(t *testing.T) {
	cfg := tcpConfig(config.DriverPostgres)
	cfg.CloudSQLConnectionName = "proj:region:instance"

	dsn := PostgresDSN(cfg)
	assert.Contains(t, dsn, "host=/cloudsql/proj:region:instance")
	assert.NotContains(t, dsn, "localhost")
	assert.NotContains(t, dsn, "port=")
}

func TestPostgresDSN_QuotesSpecialValues(t *testing.T) {
	cfg := tcpConfig(config.DriverPostgres)
	cfg.Password = "it's a secret"

	assert.Contains(t, PostgresDSN(cfg), `password='it\'s a secret'`)
}

func TestMySQLDSN(t *testing.T) {
	cfg := tcpConfig(config.DriverMySQL)
	cfg.Port = "3306"
	cfg.User = "root"

	dsn := MySQLDSN(cfg)
	assert.Contains(t, dsn, "root:s3cret@tcp(localhost:3306)/matcha_db")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	cfg.CloudSQLConnectionName = "proj:region:instance"
	assert.Contains(t, MySQLDSN(cfg), "@unix(/cloudsql/proj:region:instance)/matcha_db")
}

func TestDialector(t *testing.T) {
	d, err := Dialector(tcpConfig(config.DriverPostgres))
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(tcpConfig(config.DriverMySQL))
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = Dialector(tcpConfig("sqlite"))
	assert.Error(t, err)
}

func TestNow_MicrosecondPrecision(t *testing.T) {
	for i := 0; i < 50; i++ {
		now := Now()
		assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
		assert.Equal(t, time.UTC, now.Location())
	}
}
