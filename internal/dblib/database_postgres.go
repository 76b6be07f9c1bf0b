package dblib

import (
	"database/sql"
	"fmt"
	"strings"
)

type PostgresHandler struct{}

// splitSchema splits "schema.table", defaulting the schema to public.
func splitSchema(name string) (string, string) {
	if dot := strings.IndexByte(name, '.'); dot != -1 {
		return name[:dot], name[dot+1:]
	}
	return "public", name
}

func (h *PostgresHandler) CheckIsView(db *sql.DB, relationName string) (bool, error) {
	schema, rel := splitSchema(relationName)
	var isView bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_views
			WHERE schemaname = $1 AND viewname = $2
		)`, schema, rel).Scan(&isView)
	return isView, err
}

func (h *PostgresHandler) LoadColumns(db *sql.DB, tableName string) ([]Column, error) {
	schema, rel := splitSchema(tableName)
	rows, err := db.Query(`SELECT column_name, data_type, is_nullable, is_generated
			FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2
			ORDER BY ordinal_position`, schema, rel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable, generated string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &generated); err != nil {
			return nil, err
		}
		col.Nullable = strings.EqualFold(nullable, "yes")
		col.Generated = strings.EqualFold(generated, "always")
		col.Table = tableName
		col.BaseColumn = col.Name
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

func (h *PostgresHandler) LoadEnums(db *sql.DB, tableName string, columns []Column) ([]Column, error) {
	schema, rel := splitSchema(tableName)
	rows, err := db.Query(`SELECT c.column_name, e.enumlabel
		FROM information_schema.columns c
		JOIN pg_type t ON t.typname = c.udt_name
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE c.table_schema = $1 AND c.table_name = $2 AND c.data_type = 'USER-DEFINED'
		ORDER BY c.ordinal_position, e.enumsortorder`, schema, rel)
	if err != nil {
		return columns, err
	}
	defer rows.Close()

	labels := map[string][]string{}
	for rows.Next() {
		var colName, label string
		if err := rows.Scan(&colName, &label); err != nil {
			continue
		}
		labels[colName] = append(labels[colName], label)
	}

	updated := make([]Column, len(columns))
	copy(updated, columns)
	for i := range updated {
		if values, ok := labels[updated[i].Name]; ok {
			updated[i].EnumValues = values
		}
	}
	return updated, rows.Err()
}

func (h *PostgresHandler) LookupKey(db *sql.DB, tableName string) ([]string, error) {
	schema, rel := splitSchema(tableName)
	rows, err := db.Query(`SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position`, schema, rel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (h *PostgresHandler) QuoteIdent(ident string) string {
	if isSafeUnquotedIdent(ident) {
		return ident
	}
	return "\"" + strings.ReplaceAll(ident, "\"", "\"\"") + "\""
}

func (h *PostgresHandler) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}
