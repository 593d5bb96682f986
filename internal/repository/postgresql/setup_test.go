package postgresql_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when no database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err = db.Exec(ctx, `TRUNCATE leave_requests, leave_types, holidays, calendar_settings, shifts, notification_events, employees CASCADE`)
	require.NoError(t, err)

	return db
}
