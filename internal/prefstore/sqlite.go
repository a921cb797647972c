package prefstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fknsrs.biz/p/sorm"

	"fknsrs.biz/p/ytbrowse/internal/ctxdb"
	"fknsrs.biz/p/ytbrowse/models"
)

func init() {
	sorm.SetParameterPrefix("?")
}

const createPreferencesTable = `create table if not exists preferences (
  id integer not null primary key autoincrement,
  created_at datetime not null,
  updated_at datetime not null,
  name text not null unique,
  data text not null
)`

type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, createPreferencesTable); err != nil {
		return nil, fmt.Errorf("prefstore.NewSQLite: could not create preferences table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var p models.Preference
	if err := sorm.FindFirstWhere(ctx, s.db, &p, "where name = ?", key); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("prefstore.SQLite.Get: %w", err)
	}

	return []byte(p.Data), true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	if err := ctxdb.UsingTx(ctxdb.WithDB(ctx, s.db), nil, func(ctx context.Context, tx *sql.Tx) error {
		now := time.Now()

		var p models.Preference
		if err := sorm.FindFirstWhere(ctx, tx, &p, "where name = ?", key); err != nil {
			if err != sql.ErrNoRows {
				return err
			}

			p.CreatedAt = now
			p.UpdatedAt = now
			p.Name = key
			p.Data = string(value)

			return sorm.CreateRecord(ctx, tx, &p)
		}

		p.UpdatedAt = now
		p.Data = string(value)

		return sorm.SaveRecord(ctx, tx, &p)
	}); err != nil {
		return fmt.Errorf("prefstore.SQLite.Put: %w", err)
	}

	return nil
}
