package sqllog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
)

func init() {
	sql.Register("sqlite3:sqllog-all", New(&sqlite3.SQLiteDriver{}, 0))
	sql.Register("sqlite3:sqllog-slow", New(&sqlite3.SQLiteDriver{}, time.Hour))
}

func openTestDB(t *testing.T, driverName string) *sql.DB {
	db, err := sql.Open(driverName, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLogsStatements(t *testing.T) {
	a := assert.New(t)

	logger, hook := test.NewNullLogger()
	ctx := ctxlogger.WithLogger(context.Background(), logger)

	db := openTestDB(t, "sqlite3:sqllog-all")

	_, err := db.ExecContext(ctx, "create table things (\n  name text not null\n)")
	a.NoError(err)

	_, err = db.ExecContext(ctx, "insert into things (name) values (?)", "kitten")
	a.NoError(err)

	var name string
	a.NoError(db.QueryRowContext(ctx, "select name from things where name = ?", "kitten").Scan(&name))
	a.Equal("kitten", name)

	entries := hook.AllEntries()
	if !a.Len(entries, 3) {
		return
	}

	a.Equal("sql exec", entries[0].Message)
	a.Equal("create table things ( name text not null )", entries[0].Data["sql.query"])

	a.Equal("sql exec", entries[1].Message)
	a.Equal(`"kitten"`, entries[1].Data["sql.args.1"])

	a.Equal("sql query", entries[2].Message)
	a.Equal("select name from things where name = ?", entries[2].Data["sql.query"])
	a.Contains(entries[2].Data, "sql.duration")
}

func TestSkipsFastStatements(t *testing.T) {
	a := assert.New(t)

	logger, hook := test.NewNullLogger()
	ctx := ctxlogger.WithLogger(context.Background(), logger)

	db := openTestDB(t, "sqlite3:sqllog-slow")

	_, err := db.ExecContext(ctx, "create table things (name text not null)")
	a.NoError(err)

	a.Empty(hook.AllEntries())

	_, err = db.ExecContext(ctx, "insert into missing (name) values (?)", "kitten")
	a.Error(err)

	if e := hook.LastEntry(); a.NotNil(e) {
		a.Equal(logrus.WarnLevel, e.Level)
		a.Equal("sql exec failed", e.Message)
		a.Contains(e.Data, logrus.ErrorKey)
	}
}

func TestFormatArg(t *testing.T) {
	for _, tc := range []struct {
		name   string
		value  interface{}
		output string
	}{
		{"nil", nil, "NULL"},
		{"int", int64(42), "42"},
		{"string", "a b", `"a b"`},
		{"bytes", []byte("abc"), "[3 bytes]"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, formatArg(tc.value))
		})
	}
}
