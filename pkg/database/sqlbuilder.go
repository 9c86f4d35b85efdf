package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
)

func Excluded(column string) any {
	return sqlbuilder.Raw(fmt.Sprintf("EXCLUDED.%s", column))
}

type InsertBuilder struct {
	*sqlbuilder.InsertBuilder
}

func NewInsertBuilder() *InsertBuilder {
	return &InsertBuilder{sqlbuilder.PostgreSQL.NewInsertBuilder()}
}

func (b *InsertBuilder) OnConflict(columns ...string) *UpdateBuilder {
	ub := NewUpdateBuilder()
	b.SQL(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE %s", strings.Join(columns, ", "), b.Var(ub)))

	return ub
}

func (b *InsertBuilder) OnConflictDoNothing() *InsertBuilder {
	b.SQL("ON CONFLICT DO NOTHING")
	return b
}

type UpdateBuilder struct {
	*sqlbuilder.UpdateBuilder
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{sqlbuilder.PostgreSQL.NewUpdateBuilder()}
}

type DeleteBuilder struct {
	*sqlbuilder.DeleteBuilder
}

func NewDeleteBuilder() *DeleteBuilder {
	return &DeleteBuilder{sqlbuilder.PostgreSQL.NewDeleteBuilder()}
}

const (
	LeftJoin  = sqlbuilder.LeftJoin
	InnerJoin = sqlbuilder.InnerJoin
)

type SelectBuilder struct {
	*sqlbuilder.SelectBuilder
}

func NewSelectBuilder() *SelectBuilder {
	return &SelectBuilder{sqlbuilder.PostgreSQL.NewSelectBuilder()}
}

// Struct builds statements from a row type's db tags
type Struct struct {
	*sqlbuilder.Struct
}

func NewStruct(v any) *Struct {
	return &Struct{sqlbuilder.NewStruct(v).For(sqlbuilder.PostgreSQL)}
}

func (s *Struct) SelectFrom(table string) *SelectBuilder {
	return &SelectBuilder{s.Struct.SelectFrom(table)}
}

// InsertInto builds a single multi-row insert for all values
func (s *Struct) InsertInto(table string, v ...any) *InsertBuilder {
	return &InsertBuilder{s.Struct.InsertInto(table, v...)}
}

func (s *Struct) DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{s.Struct.DeleteFrom(table)}
}

// Chunk splits rows into batches so a bulk insert stays under the postgres parameter limit
func Chunk[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = len(rows)
	}

	var chunks [][]T
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Values converts typed rows into the variadic form the builders take
func Values[T any](rows []T) []any {
	values := make([]any, 0, len(rows))
	for i := range rows {
		values = append(values, &rows[i])
	}
	return values
}

// InsertMany writes rows with one multi-row insert per batch and returns the number of rows written
func InsertMany[T any](ctx context.Context, q Querier, s *Struct, table string, rows []T, batchSize int) (int, error) {
	written := 0
	for _, chunk := range Chunk(rows, batchSize) {
		query, args := s.InsertInto(table, Values(chunk)...).Build()
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return written, err
		}
		written += len(chunk)
	}
	return written, nil
}
