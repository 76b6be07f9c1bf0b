package dblib

import (
	"database/sql"
	"fmt"
)

// Handler implements the database specific parts of schema introspection.
type Handler interface {
	// CheckIsView reports whether the named relation is a view.
	CheckIsView(db *sql.DB, relationName string) (bool, error)

	// LoadColumns loads column metadata in table definition order.
	LoadColumns(db *sql.DB, tableName string) ([]Column, error)

	// LoadEnums fills Column.EnumValues for enum typed columns. Databases
	// without enum types return the columns unchanged.
	LoadEnums(db *sql.DB, tableName string, columns []Column) ([]Column, error)

	// LookupKey returns the columns of the primary key, or failing that the
	// narrowest NOT NULL unique index. Empty when the table has neither.
	LookupKey(db *sql.DB, tableName string) ([]string, error)

	// QuoteIdent quotes an identifier when it is not safe to leave bare.
	QuoteIdent(ident string) string

	// Placeholder returns the bind parameter for a 1-based position.
	Placeholder(position int) string
}

// NewHandler returns the Handler for dbType.
func NewHandler(dbType DatabaseType) (Handler, error) {
	switch dbType {
	case SQLite:
		return &SQLiteHandler{}, nil
	case PostgreSQL:
		return &PostgresHandler{}, nil
	case MySQL:
		return &MySQLHandler{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %v", dbType)
	}
}
