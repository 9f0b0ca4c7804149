package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	_createStateTable = `CREATE TABLE IF NOT EXISTS monitor_state (
							installation TEXT PRIMARY KEY,
							document JSONB NOT NULL,
							updated_at TIMESTAMPTZ NOT NULL
						)`
	_queryState  = "SELECT document FROM monitor_state WHERE installation = $1"
	_upsertState = `INSERT INTO monitor_state (
							installation, document, updated_at
						) VALUES ($1,$2,$3)
						ON CONFLICT (installation)
						DO UPDATE SET
							document = EXCLUDED.document,
							updated_at = EXCLUDED.updated_at;`
)

// PostgresBackend stores the state document as one JSONB row per
// installation.
type PostgresBackend struct {
	db           *sqlx.DB
	installation string
}

func NewPostgresBackend(db *sqlx.DB, installation string) *PostgresBackend {
	return &PostgresBackend{
		db:           db,
		installation: installation,
	}
}

func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, _createStateTable); err != nil {
		return fmt.Errorf("%w: can't create monitor_state table", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context) (State, error) {
	var document []byte
	if err := b.db.GetContext(ctx, &document, _queryState, b.installation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewState(), nil
		}
		return State{}, fmt.Errorf("%w: can't query state", err)
	}

	return Decode(document)
}

func (b *PostgresBackend) Save(ctx context.Context, s State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if _, err := b.db.ExecContext(ctx, _upsertState, b.installation, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: can't upsert state", err)
	}

	return nil
}

func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
