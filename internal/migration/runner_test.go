package migration

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, base, up, down string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+".up.sql"), []byte(up), 0644))
	if down != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, base+".down.sql"), []byte(down), 0644))
	}
}

func newTestRunner(t *testing.T, dir string) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	cfg := DefaultConfig()
	cfg.MigrationsPath = dir
	runner, err := NewRunner(database, cfg)
	require.NoError(t, err)
	return runner, mock
}

func TestLoadFromDisk_SortsAndSkipsInvalid(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000002_create_deposits", "CREATE TABLE deposits ();", "DROP TABLE deposits;")
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	writeMigration(t, dir, "1_bad_name", "SELECT 1;", "")

	// Act
	migrations, err := LoadFromDisk(dir, false)

	// Assert
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(20251001000001), migrations[0].Version)
	assert.False(t, migrations[0].HasDownFile)
	assert.Equal(t, "create_deposits", migrations[1].Name)
	assert.True(t, migrations[1].HasDownFile)
	assert.Len(t, migrations[1].UpChecksum, 64)
}

func TestLoadFromDisk_RequireDown(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")

	_, err := LoadFromDisk(dir, true)

	assert.Error(t, err)
}

func TestCreate_WritesPair(t *testing.T) {
	dir := t.TempDir()

	up, down, err := Create(dir, "Add BTC index!", time.Date(2025, 10, 16, 9, 30, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20251016093000_add_btc_index.up.sql"), up)
	assert.FileExists(t, up)
	assert.FileExists(t, down)
}

func TestNewRunner_RejectsUnsafeTableName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TableName = "migrations; DROP TABLE users"

	_, err := NewRunner(nil, cfg)

	assert.Error(t, err)
}

func TestGetStatus_NoTrackingTable(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	runner, mock := newTestRunner(t, dir)
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).
		WillReturnError(&pq.Error{Code: "42P01"})

	// Act
	status, err := runner.GetStatus(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingCount)
	assert.Equal(t, StatusWarning, status.SystemHealth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatus_ChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	runner, mock := newTestRunner(t, dir)
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "up_checksum", "applied_at"}).
			AddRow(int64(20251001000001), "deadbeef", time.Now()))

	status, err := runner.GetStatus(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StatusError, status.SystemHealth)
}

func TestRunUp_AppliesPendingInOrder(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	writeMigration(t, dir, "20251001000002_create_deposits", "CREATE TABLE deposits ();", "")
	runner, mock := newTestRunner(t, dir)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "up_checksum", "applied_at"}))

	for _, m := range []struct {
		version int64
		sql     string
	}{
		{20251001000001, "CREATE TABLE users ();"},
		{20251001000002, "CREATE TABLE deposits ();"},
	} {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs(advisoryLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(m.version).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(m.sql)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	// Act
	results, err := runner.RunUp(context.Background(), 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, int64(20251001000002), results[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunUp_SkipsWhenAppliedConcurrently(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	runner, mock := newTestRunner(t, dir)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "up_checksum", "applied_at"}))
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	results, err := runner.RunUp(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDown_RollsBackNewestFirst(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "DROP TABLE users;")
	writeMigration(t, dir, "20251001000002_create_deposits", "CREATE TABLE deposits ();", "DROP TABLE deposits;")
	runner, mock := newTestRunner(t, dir)

	migrations, err := LoadFromDisk(dir, false)
	require.NoError(t, err)
	rows := sqlmock.NewRows([]string{"version", "up_checksum", "applied_at"})
	for _, m := range migrations {
		rows.AddRow(m.Version, m.UpChecksum, time.Now())
	}
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(20251001000002)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DROP TABLE deposits`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM schema_migrations WHERE version = \$1`).
		WithArgs(int64(20251001000002)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	results, err := runner.RunDown(context.Background(), 20251001000001)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, DirectionDown, results[0].Direction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunUp_FailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20251001000001_create_users", "CREATE TABLE users ();", "")
	runner, mock := newTestRunner(t, dir)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version, up_checksum, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "up_checksum", "applied_at"}))
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`CREATE TABLE users`).WillReturnError(&pq.Error{Code: "42P07", Message: "relation already exists"})
	mock.ExpectRollback()

	results, err := runner.RunUp(context.Background(), 0)

	assert.Error(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}
