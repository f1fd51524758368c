package collection

import (
	"context"
	"database/sql"
	"fmt"
)

// Source loads the models of a collection.
type Source interface {
	Load(ctx context.Context) ([]*Model, error)
}

// SliceSource serves fixed attribute sets.
type SliceSource []map[string]any

func (s SliceSource) Load(ctx context.Context) ([]*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	models := make([]*Model, 0, len(s))
	for _, attrs := range s {
		models = append(models, NewModel(attrs))
	}
	return models, nil
}

// SQLSource builds one model per row of a query, keyed by column name.
// Text columns are returned as strings.
type SQLSource struct {
	DB    *sql.DB
	Query string
	Args  []any
}

func (s SQLSource) Load(ctx context.Context) ([]*Model, error) {
	rows, err := s.DB.QueryContext(ctx, s.Query, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("collection: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("collection: columns: %w", err)
	}
	var models []*Model
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("collection: scan: %w", err)
		}
		attrs := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				attrs[col] = string(b)
				continue
			}
			attrs[col] = values[i]
		}
		models = append(models, NewModel(attrs))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collection: rows: %w", err)
	}
	return models, nil
}
