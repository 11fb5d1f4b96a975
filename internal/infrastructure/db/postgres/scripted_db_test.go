package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
)

// scriptedRow plays back one prepared result. A nil value leaves the
// destination untouched, which is how a NULL column comes through.
type scriptedRow struct {
	values []any
	err    error
}

func (r *scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		if v == nil {
			continue
		}
		target := reflect.ValueOf(dest[i]).Elem()
		target.Set(reflect.ValueOf(v).Convert(target.Type()))
	}
	return nil
}

// scriptedTx hands out prepared rows in order and records every statement.
// The embedded pgx.Tx stays nil: anything the repositories never call panics.
type scriptedTx struct {
	pgx.Tx
	rows       []*scriptedRow
	statements []string
	committed  bool
	rolledBack bool
}

func (t *scriptedTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	t.statements = append(t.statements, sql)
	if len(t.rows) == 0 {
		return &scriptedRow{err: pgx.ErrNoRows}
	}
	row := t.rows[0]
	t.rows = t.rows[1:]
	return row
}

func (t *scriptedTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *scriptedTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// scriptedDB satisfies DB for the transactional repository paths.
type scriptedDB struct {
	DB
	tx *scriptedTx
}

func (d *scriptedDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return d.tx, nil
}
