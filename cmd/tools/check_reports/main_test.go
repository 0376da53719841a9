package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM reports").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"title", "query", "competition_level", "email", "embedded", "created_at"}).
			AddRow("Padarias artesanais", "padaria em Curitiba", "Alta", "ana@example.com", true, created))

	rows, err := mock.Query(context.Background(), latestReportsQuery, 5)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, render(&out, rows))
	assert.Contains(t, out.String(), "Padarias artesanais")
	assert.Contains(t, out.String(), "2026-03-01 14:30")
	assert.NoError(t, mock.ExpectationsWereMet())
}
