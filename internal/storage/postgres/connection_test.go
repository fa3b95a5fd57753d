package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoSim-25-26J-441/medinav-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{Host: "db", Port: 5433, User: "nav", Password: "secret", Name: "medinav"})
	assert.Equal(t, "host=db port=5433 user=nav password=secret dbname=medinav sslmode=disable", dsn)
}

func TestDSN_QuotesAndSSLMode(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host: "db", Port: 5432, User: "nav", Password: `it's a pass\word`, Name: "medinav", SSLMode: "require",
	})
	assert.Equal(t, `host=db port=5432 user=nav password='it\'s a pass\\word' dbname=medinav sslmode=require`, dsn)

	dsn = DSN(&config.DatabaseConfig{Host: "db", Port: 5432, User: "nav", Name: "medinav"})
	assert.Contains(t, dsn, "password='' ")
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS department_metrics")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	err = EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply schema")

	assert.NoError(t, mock.ExpectationsWereMet())
}
