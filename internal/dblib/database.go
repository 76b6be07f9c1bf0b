package dblib

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRowMatched is returned by UpdateValue when the key matched nothing.
var ErrNoRowMatched = errors.New("no row matched the key")

// NewRelation loads the schema and lookup key of a table or view.
func NewRelation(db *sql.DB, dbType DatabaseType, tableName string) (*Relation, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name is required")
	}
	wrapErr := func(err error) (*Relation, error) {
		return nil, fmt.Errorf("failed to load table schema: %w", err)
	}

	handler, err := NewHandler(dbType)
	if err != nil {
		return wrapErr(err)
	}
	rel := &Relation{
		DB:          db,
		DBType:      dbType,
		handler:     handler,
		Name:        tableName,
		ColumnIndex: make(map[string]int),
	}

	if rel.IsView, err = handler.CheckIsView(db, tableName); err != nil {
		return wrapErr(err)
	}
	if rel.Columns, err = handler.LoadColumns(db, tableName); err != nil {
		return wrapErr(err)
	}
	if columns, err := handler.LoadEnums(db, tableName, rel.Columns); err != nil {
		debugLog("LoadEnums(%s): %v\n", tableName, err)
	} else {
		rel.Columns = columns
	}
	for i, col := range rel.Columns {
		rel.ColumnIndex[col.Name] = i
	}

	if rel.IsView {
		return rel, nil
	}
	keyCols, err := handler.LookupKey(db, tableName)
	if err != nil {
		return wrapErr(err)
	}
	for _, name := range keyCols {
		idx, ok := rel.ColumnIndex[name]
		if !ok {
			return wrapErr(fmt.Errorf("key column %s not found", name))
		}
		rel.Key = append(rel.Key, idx)
	}
	return rel, nil
}

// Editable reports whether rows can be addressed for updates.
func (rel *Relation) Editable() bool {
	return !rel.IsView && len(rel.Key) > 0
}

// ColumnNames returns the names of the relation's columns in order.
func (rel *Relation) ColumnNames() []string {
	names := make([]string, len(rel.Columns))
	for i, col := range rel.Columns {
		names[i] = col.Name
	}
	return names
}

// SelectQuery returns a SELECT of every column ordered by the lookup key.
func (rel *Relation) SelectQuery(limit int) string {
	quoted := make([]string, len(rel.Columns))
	for i, col := range rel.Columns {
		quoted[i] = rel.handler.QuoteIdent(col.Name)
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quoteQualified(rel.DBType, rel.Name))
	if len(rel.Key) > 0 {
		keys := make([]string, len(rel.Key))
		for i, idx := range rel.Key {
			keys[i] = rel.handler.QuoteIdent(rel.Columns[idx].Name)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(keys, ", "))
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String()
}

// LoadRows reads up to limit rows (all rows when limit <= 0).
func (rel *Relation) LoadRows(ctx context.Context, limit int) ([][]any, error) {
	result, err := RunQuery(ctx, rel.DB, rel.SelectQuery(limit))
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// KeyValues extracts the lookup key of a row holding every relation column.
func (rel *Relation) KeyValues(row []any) []any {
	key := make([]any, len(rel.Key))
	for i, idx := range rel.Key {
		if idx < len(row) {
			key[i] = row[idx]
		}
	}
	return key
}

// UpdateValue sets column to value on the row identified by key.
func (rel *Relation) UpdateValue(ctx context.Context, key []any, column string, value any) error {
	if !rel.Editable() {
		return fmt.Errorf("%s has no lookup key", rel.Name)
	}
	if len(key) != len(rel.Key) {
		return fmt.Errorf("key has %d values, want %d", len(key), len(rel.Key))
	}
	idx, ok := rel.ColumnIndex[column]
	if !ok {
		return fmt.Errorf("column %s not found", column)
	}
	if rel.Columns[idx].Generated {
		return fmt.Errorf("column %s is generated", column)
	}

	where := make([]string, len(rel.Key))
	args := make([]any, 0, len(key)+1)
	args = append(args, value)
	for i, k := range rel.Key {
		where[i] = fmt.Sprintf("%s = %s", rel.handler.QuoteIdent(rel.Columns[k].Name), rel.handler.Placeholder(i+2))
		args = append(args, key[i])
	}
	query := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s",
		quoteQualified(rel.DBType, rel.Name),
		rel.handler.QuoteIdent(column),
		rel.handler.Placeholder(1),
		strings.Join(where, " AND "))
	debugLog("UpdateValue: %s %v\n", query, args)

	res, err := rel.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s.%s: %w", rel.Name, column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRowMatched
	}
	return nil
}

// QueryResult holds a fully read result set.
type QueryResult struct {
	Columns []string
	Types   []string // driver type names, may be empty strings
	Rows    [][]any
}

// RunQuery executes query and reads every row.
func RunQuery(ctx context.Context, db *sql.DB, query string, args ...any) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := &QueryResult{}
	if result.Columns, err = rows.Columns(); err != nil {
		return nil, err
	}
	result.Types = make([]string, len(result.Columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			result.Types[i] = ct.DatabaseTypeName()
		}
	}

	for rows.Next() {
		values := make([]any, len(result.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTables returns the base tables of the connected database.
func ListTables(ctx context.Context, db *sql.DB, dbType DatabaseType) ([]string, error) {
	var query string
	switch dbType {
	case PostgreSQL:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case MySQL:
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case SQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("unsupported database type: %v", dbType)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
