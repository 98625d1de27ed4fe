package migrations

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"000001_create_notes.up.sql":   {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)")},
		"000001_create_notes.down.sql": {Data: []byte("DROP TABLE notes")},
		"000003_add_title.up.sql":      {Data: []byte("ALTER TABLE notes ADD COLUMN title TEXT")},
		"000003_add_title.down.sql":    {Data: []byte("ALTER TABLE notes DROP COLUMN title")},
		"README.md":                    {Data: []byte("ignored")},
	}
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

func TestRunner_Load(t *testing.T) {
	runner := NewRunner(testFS(), SQLite).
		RegisterGo(2, "seed_notes", func(context.Context, *sql.Tx) error { return nil }, nil)

	migrations, err := runner.Load()

	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_notes", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.NotNil(t, migrations[1].UpFn)
	assert.Equal(t, "add_title", migrations[2].Name)
}

func TestRunner_LoadRejectsVersionCollision(t *testing.T) {
	runner := NewRunner(testFS(), SQLite).RegisterGo(1, "clash", nil, nil)

	_, err := runner.Load()

	assert.ErrorContains(t, err, "collides")
}

func TestRunner_Run(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seeded := 0
	runner := NewRunner(testFS(), SQLite).RegisterGo(2, "seed_notes",
		func(ctx context.Context, tx *sql.Tx) error {
			seeded++
			_, err := tx.ExecContext(ctx, "INSERT INTO notes (body) VALUES ('first')")
			return err
		}, nil)

	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, runner.Run(ctx, db), "second run is a no-op")

	assert.Equal(t, 1, seeded)
	assert.ElementsMatch(t, []string{"id", "body", "title"}, tableColumns(t, db, "notes"))
	applied, err := runner.Applied(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, applied)
}

func TestRunner_RunRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"000001_broken.up.sql":   {Data: []byte("CREATE TABLE ok (id INTEGER); CREATE TABLE")},
		"000001_broken.down.sql": {Data: []byte("")},
	}

	err := NewRunner(fsys, SQLite).Run(ctx, db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 1 (broken)")
	applied, err := NewRunner(fsys, SQLite).Applied(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestRunner_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(testFS(), SQLite)
	require.NoError(t, runner.Run(ctx, db))

	version, err := runner.Rollback(ctx, db)

	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.ElementsMatch(t, []string{"id", "body"}, tableColumns(t, db, "notes"))

	version, err = runner.Rollback(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	version, err = runner.Rollback(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename string
		version  int
		name     string
	}{
		{"000001_create_kv.up.sql", 1, "create_kv"},
		{"12_add_index.up.sql", 12, "add_index"},
		{"create_kv.up.sql", 0, ""},
		{"000000_zero.up.sql", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name := parseFilename(tt.filename)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestPostgresPlaceholder(t *testing.T) {
	assert.Equal(t, "$2", Postgres.Placeholder(2))
	assert.Equal(t, "?", SQLite.Placeholder(2))
}
