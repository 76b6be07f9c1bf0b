package dblib

import (
	"database/sql"
	"fmt"
	"strings"
)

type MySQLHandler struct{}

func (h *MySQLHandler) CheckIsView(db *sql.DB, relationName string) (bool, error) {
	var tableType string
	err := db.QueryRow(`SELECT table_type FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?`, relationName).Scan(&tableType)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("relation %s does not exist", relationName)
	}
	if err != nil {
		return false, err
	}
	return tableType == "VIEW", nil
}

func (h *MySQLHandler) LoadColumns(db *sql.DB, tableName string) ([]Column, error) {
	rows, err := db.Query(`SELECT column_name, column_type, is_nullable, extra
			FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ?
			ORDER BY ordinal_position`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable, extra string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &extra); err != nil {
			return nil, err
		}
		col.Nullable = strings.EqualFold(nullable, "yes")
		col.Generated = strings.Contains(strings.ToUpper(extra), "GENERATED")
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

// LoadEnums parses the value list out of column_type, which LoadColumns
// already stored in Column.Type.
func (h *MySQLHandler) LoadEnums(db *sql.DB, tableName string, columns []Column) ([]Column, error) {
	updated := make([]Column, len(columns))
	copy(updated, columns)
	for i := range updated {
		if values := parseEnumValues(updated[i].Type); values != nil {
			updated[i].EnumValues = values
		}
	}
	return updated, nil
}

func (h *MySQLHandler) LookupKey(db *sql.DB, tableName string) ([]string, error) {
	rows, err := db.Query(`SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, tableName)
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

func (h *MySQLHandler) QuoteIdent(ident string) string {
	if isSafeUnquotedIdent(ident) {
		return ident
	}
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (h *MySQLHandler) Placeholder(position int) string {
	return "?"
}

// parseEnumValues extracts the values of a MySQL column_type such as
// enum('active','inactive'). It returns nil for other types.
func parseEnumValues(colType string) []string {
	lower := strings.ToLower(colType)
	if !strings.HasPrefix(lower, "enum(") || !strings.HasSuffix(lower, ")") {
		return nil
	}
	inner := colType[5 : len(colType)-1]

	values := []string{}
	var current strings.Builder
	inQuote := false
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		switch {
		case ch == '\\' && i+1 < len(inner):
			i++
			current.WriteByte(inner[i])
		case ch == '\'' && inQuote && i+1 < len(inner) && inner[i+1] == '\'':
			i++
			current.WriteByte('\'')
		case ch == '\'':
			if inQuote {
				values = append(values, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteByte(ch)
		}
	}
	return values
}
