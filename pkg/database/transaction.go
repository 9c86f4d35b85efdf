package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

type TxContextKey string

const txKey = TxContextKey("tx-context-key")

type Tx interface {
	Querier
	IsOpen() bool
	// Owner reports whether this handle began the transaction and so must end it
	Owner() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Transaction wraps sqlx.Tx. Handles returned to nested callers share the same sqlx.Tx but
// are not owners, so their Commit and Rollback leave the transaction to the outermost caller.
type Transaction struct {
	*sqlx.Tx
	logger   ectologger.Logger
	owner    bool
	isClosed *bool
}

func NewTx(tx *sqlx.Tx, logger ectologger.Logger) *Transaction {
	closed := false
	return &Transaction{
		Tx:       tx,
		logger:   logger,
		owner:    true,
		isClosed: &closed,
	}
}

func (t *Transaction) borrowed() *Transaction {
	return &Transaction{
		Tx:       t.Tx,
		logger:   t.logger,
		owner:    false,
		isClosed: t.isClosed,
	}
}

// TxFromContext returns the open transaction carried by ctx, if any
func TxFromContext(ctx context.Context) *Transaction {
	tx, ok := ctx.Value(txKey).(*Transaction)
	if !ok || tx == nil || !tx.IsOpen() {
		return nil
	}
	return tx
}

// GetTx joins the transaction already open on ctx, or begins a new one and stores it on the
// returned context
func GetTx(ctx context.Context, logger ectologger.Logger, db DB, opts *sql.TxOptions) (context.Context, Tx, error) {
	if existing := TxFromContext(ctx); existing != nil {
		return ctx, existing.borrowed(), nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("error while beginning transaction")
	}

	newTx := NewTx(tx, logger)
	return context.WithValue(ctx, txKey, newTx), newTx, nil
}

// WithTx runs fn inside a transaction, committing when it returns nil and rolling back otherwise
func WithTx(ctx context.Context, db DB, fn func(ctx context.Context) error) error {
	ctx, tx, err := db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (t *Transaction) IsOpen() bool {
	return !*t.isClosed
}

func (t *Transaction) Owner() bool {
	return t.owner
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if !t.owner || *t.isClosed {
		return nil
	}

	err := t.Tx.Rollback()
	if err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("error while rolling back transaction")
	}

	*t.isClosed = true
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if !t.owner || *t.isClosed {
		return nil
	}

	err := t.Tx.Commit()
	if err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("error while committing transaction")
	}

	*t.isClosed = true
	return nil
}
