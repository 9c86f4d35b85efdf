// Package testutil holds shared test doubles and the postgres harness used by integration tests.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"

	"github.com/Ramsey-B/reed/pkg/database"
)

// Logger returns a logger that discards everything
func Logger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// Statement is a query captured by RecordingDB
type Statement struct {
	Query string
	Args  []any
}

// RecordingDB is a database.DB that records statements instead of running them.
// Err, when set, is returned from every call.
type RecordingDB struct {
	mu         sync.Mutex
	Statements []Statement
	Err        error
	// FailAfter makes every ExecContext call after the first FailAfter calls fail with Err
	FailAfter int
}

var _ database.DB = (*RecordingDB)(nil)

func (db *RecordingDB) record(query string, args []any) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Statements = append(db.Statements, Statement{Query: query, Args: args})
	if db.Err != nil && len(db.Statements) > db.FailAfter {
		return db.Err
	}
	return nil
}

func (db *RecordingDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	if err := db.record(query, args); err != nil {
		return nil, err
	}
	return driverResult(1), nil
}

func (db *RecordingDB) GetContext(_ context.Context, _ any, query string, args ...any) error {
	return db.record(query, args)
}

func (db *RecordingDB) SelectContext(_ context.Context, _ any, query string, args ...any) error {
	return db.record(query, args)
}

func (db *RecordingDB) QueryRowxContext(_ context.Context, query string, args ...any) *sqlx.Row {
	_ = db.record(query, args)
	return &sqlx.Row{}
}

func (db *RecordingDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, errors.New("transactions are not supported by RecordingDB")
}

func (db *RecordingDB) PingContext(context.Context) error {
	return db.Err
}

func (db *RecordingDB) Close() error {
	return nil
}

func (db *RecordingDB) Stats() sql.DBStats {
	return sql.DBStats{}
}

func (db *RecordingDB) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error) {
	return database.GetTx(ctx, Logger(), db, opts)
}

func (db *RecordingDB) Querier(context.Context) database.Querier {
	return db
}

func (db *RecordingDB) SQL() *sql.DB {
	return nil
}

// Last returns the most recent statement
func (db *RecordingDB) Last() Statement {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.Statements) == 0 {
		return Statement{}
	}
	return db.Statements[len(db.Statements)-1]
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }
