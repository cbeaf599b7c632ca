package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/klwxsrx/vocab-client/pkg/session"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	stateTable = "client_state"

	defaultConnectionTimeout = 10 * time.Second
)

type SQLConfig struct {
	Driver            string
	DSN               string
	ConnectionTimeout time.Duration
}

type SQL struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func OpenSQL(ctx context.Context, config SQLConfig) (*SQL, error) {
	var placeholder sq.PlaceholderFormat
	switch config.Driver {
	case DriverSQLite:
		placeholder = sq.Question
	case DriverPostgres:
		placeholder = sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", config.Driver)
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = defaultConnectionTimeout
	}

	db, err := openConnection(ctx, config)
	if err != nil {
		return nil, err
	}

	store := &SQL{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func openConnection(ctx context.Context, config SQLConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Driver, err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = config.ConnectionTimeout / 4
	eb.MaxElapsedTime = config.ConnectionTimeout

	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(eb, ctx))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", config.Driver, err)
	}
	return db, nil
}

func (s *SQL) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+stateTable+` (
			name       VARCHAR(64) PRIMARY KEY,
			value      TEXT        NOT NULL,
			updated_at TIMESTAMP   NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create %s table: %w", stateTable, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context) (string, error) {
	query, args, err := s.builder.
		Select("value").
		From(stateTable).
		Where(sq.Eq{"name": session.TokenKey}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var token string
	err = s.db.GetContext(ctx, &token, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return token, nil
}

func (s *SQL) Set(ctx context.Context, token string) error {
	query, args, err := s.builder.
		Insert(stateTable).
		Columns("name", "value", "updated_at").
		Values(session.TokenKey, token, time.Now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context) error {
	query, args, err := s.builder.
		Delete(stateTable).
		Where(sq.Eq{"name": session.TokenKey}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
