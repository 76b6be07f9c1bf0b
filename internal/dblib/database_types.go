package dblib

import (
	"database/sql"
	"fmt"
	"strings"
)

type DatabaseType int

const (
	SQLite DatabaseType = iota
	PostgreSQL
	MySQL
)

func (t DatabaseType) String() string {
	switch t {
	case SQLite:
		return "sqlite"
	case PostgreSQL:
		return "postgres"
	case MySQL:
		return "mysql"
	}
	return fmt.Sprintf("DatabaseType(%d)", int(t))
}

// DriverName returns the database/sql driver registered for t.
func (t DatabaseType) DriverName() string {
	switch t {
	case SQLite:
		return "sqlite3"
	case PostgreSQL:
		return "postgres"
	case MySQL:
		return "mysql"
	}
	return ""
}

// ParseDatabaseType accepts the names printed by String plus a few aliases.
func ParseDatabaseType(s string) (DatabaseType, error) {
	switch strings.ToLower(s) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return PostgreSQL, nil
	case "mysql", "mariadb":
		return MySQL, nil
	}
	return 0, fmt.Errorf("unsupported database type: %q", s)
}

// Column represents a column of a relation.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	Table      string // base table, blank if derived
	BaseColumn string // column name in the base table
	Generated  bool
	EnumValues []string
}

// Kind maps the column's SQL type to a cell data type.
func (c Column) Kind() string {
	return TypeKind(c.Type)
}

// TypeKind maps a declared SQL type to one of integer, number, boolean, date
// or string.
func TypeKind(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if t == "tinyint(1)" {
		return "boolean"
	}
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch {
	case t == "boolean" || t == "bool":
		return "boolean"
	case strings.Contains(t, "int") || t == "serial" || t == "bigserial":
		return "integer"
	case strings.Contains(t, "real") || strings.Contains(t, "floa") || strings.Contains(t, "doub") ||
		t == "numeric" || t == "decimal":
		return "number"
	case t == "date" || strings.HasPrefix(t, "timestamp") || t == "datetime":
		return "date"
	}
	return "string"
}

// Relation is a base table with its columns and lookup key.
type Relation struct {
	DB      *sql.DB
	DBType  DatabaseType
	handler Handler

	Name        string
	IsView      bool
	Columns     []Column
	ColumnIndex map[string]int
	Key         []int // indexes into Columns
}
