package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"dgrid/internal/datamodel"
	"dgrid/internal/dblib"
)

// connectTimeout bounds the initial ping of a database.
const connectTimeout = 10 * time.Second

// Config holds the command line options
type Config struct {
	Source  string // file path or database DSN
	Type    string // overrides detection when set
	Command string // SQL query to show instead of a table
	Table   string
	Sheet   string
	Limit   int // rows loaded from a database table, 0 for all

	Mode              string
	Headers           string
	StretchLastRow    bool
	StretchLastColumn bool
	ReadOnly          bool
	Watch             bool
	Dump              bool
	SentryDSN         string
}

// SourceType is the kind of data source the grid is showing
type SourceType string

const (
	SourceSQLite   SourceType = "sqlite"
	SourcePostgres SourceType = "postgres"
	SourceMySQL    SourceType = "mysql"
	SourceJSON     SourceType = "json"
	SourceXLSX     SourceType = "xlsx"
)

var sourceIcons = map[SourceType]string{
	SourceSQLite:   "🪶",
	SourcePostgres: "🐘",
	SourceMySQL:    "🐬",
	SourceJSON:     "{}",
	SourceXLSX:     "▦",
}

// IsDatabase reports whether the source is reached through database/sql.
func (t SourceType) IsDatabase() bool {
	return t == SourceSQLite || t == SourcePostgres || t == SourceMySQL
}

func (t SourceType) databaseType() dblib.DatabaseType {
	switch t {
	case SourcePostgres:
		return dblib.PostgreSQL
	case SourceMySQL:
		return dblib.MySQL
	}
	return dblib.SQLite
}

func parseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(s) {
	case "json":
		return SourceJSON, nil
	case "xlsx", "excel":
		return SourceXLSX, nil
	}
	t, err := dblib.ParseDatabaseType(s)
	if err != nil {
		return "", fmt.Errorf("unsupported source type: %q", s)
	}
	switch t {
	case dblib.PostgreSQL:
		return SourcePostgres, nil
	case dblib.MySQL:
		return SourceMySQL, nil
	}
	return SourceSQLite, nil
}

// detectSourceType guesses the source type from the DSN scheme or the file
// extension.
func (c *Config) detectSourceType() (SourceType, error) {
	if c.Type != "" {
		return parseSourceType(c.Type)
	}
	src := c.Source
	switch {
	case strings.HasPrefix(src, "postgres://"), strings.HasPrefix(src, "postgresql://"):
		return SourcePostgres, nil
	case strings.HasPrefix(src, "mysql://"), strings.Contains(src, "@tcp("):
		return SourceMySQL, nil
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite, nil
	case ".json":
		return SourceJSON, nil
	case ".xlsx", ".xlsm":
		return SourceXLSX, nil
	}
	return "", fmt.Errorf("cannot tell the type of %q, use --type", src)
}

// connectionString returns the driver DSN for a database source
func (c *Config) connectionString(t SourceType) (string, error) {
	switch t {
	case SourceSQLite:
		if _, err := os.Stat(c.Source); os.IsNotExist(err) {
			return "", fmt.Errorf("sqlite file does not exist: %s", c.Source)
		}
		return c.Source, nil

	case SourcePostgres:
		if strings.Contains(c.Source, "sslmode=") {
			return c.Source, nil
		}
		sep := " "
		if strings.Contains(c.Source, "://") {
			sep = "?"
			if strings.Contains(c.Source, "?") {
				sep = "&"
			}
		}
		return c.Source + sep + "sslmode=disable", nil

	case SourceMySQL:
		return mysqlDSN(c.Source)
	}
	return "", fmt.Errorf("%s is not a database source", t)
}

// mysqlDSN accepts either a driver DSN or a mysql:// URL.
func mysqlDSN(src string) (string, error) {
	if !strings.HasPrefix(src, "mysql://") {
		cfg, err := mysql.ParseDSN(src)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (c *Config) connect(ctx context.Context, t SourceType) (*sql.DB, error) {
	connStr, err := c.connectionString(t)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(t.databaseType().DriverName(), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// cleanQuery trims a single statement and rejects input holding more than
// one.
func cleanQuery(sqlStr string) (string, error) {
	sqlStr = strings.TrimSpace(sqlStr)
	sqlStr = strings.TrimSpace(strings.TrimSuffix(sqlStr, ";"))

	// Any semicolon left separates statements.
	if strings.Contains(sqlStr, ";") {
		return "", fmt.Errorf("multiple SQL statements are not supported")
	}
	return sqlStr, nil
}

// Source is an open data source and the model over its current table,
// query or sheet.
type Source struct {
	Type  SourceType
	Name  string // table, sheet or query shown
	Model datamodel.DataModel
	Path  string // file behind json and xlsx sources

	limit  int
	db     *sql.DB
	sql    *datamodel.SQLModel
	json   *datamodel.JSONModel
	schema datamodel.Schema
	xlsx   *datamodel.XLSXModel
}

// OpenSource opens the source named by the config
func OpenSource(ctx context.Context, c *Config) (*Source, error) {
	t, err := c.detectSourceType()
	if err != nil {
		return nil, err
	}
	s := &Source{Type: t, limit: c.Limit}

	switch t {
	case SourceJSON:
		s.Path = c.Source
		if err := s.loadJSON(); err != nil {
			return nil, err
		}
		s.Name = filepath.Base(c.Source)

	case SourceXLSX:
		s.Path = c.Source
		m, err := datamodel.OpenXLSX(c.Source, c.Sheet)
		if err != nil {
			return nil, err
		}
		s.xlsx, s.Model, s.Name = m, m, m.Sheet()

	default:
		db, err := c.connect(ctx, t)
		if err != nil {
			return nil, err
		}
		s.db = db
		source := datamodel.SQLSource{Table: c.Table, Limit: c.Limit}
		if c.Command != "" {
			if source.Query, err = cleanQuery(c.Command); err != nil {
				db.Close()
				return nil, err
			}
		}
		if source.Table == "" && source.Query == "" {
			names, err := s.Names(ctx)
			if err != nil || len(names) == 0 {
				db.Close()
				return nil, fmt.Errorf("no table to show, use --table or --command")
			}
			source.Table = names[0]
		}
		if err := s.openSQL(ctx, source); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Source) loadJSON() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	doc, err := decodeJSONDocument(f)
	if err != nil {
		return err
	}
	s.schema = doc.Schema
	if s.json == nil {
		m, err := datamodel.NewJSONModel(doc.Schema, doc.Data)
		if err != nil {
			return err
		}
		s.json, s.Model = m, m
		return nil
	}
	return s.json.Replace(doc.Schema, doc.Data)
}

func (s *Source) openSQL(ctx context.Context, source datamodel.SQLSource) error {
	m, err := datamodel.OpenSQL(ctx, s.db, s.Type.databaseType(), source)
	if err != nil {
		return err
	}
	s.sql, s.Model = m, m
	s.Name = source.Table
	if source.Query != "" {
		s.Name = source.Query
	}
	return nil
}

// Editable reports whether the model accepts writes.
func (s *Source) Editable() bool {
	switch {
	case s.sql != nil:
		return s.sql.Editable()
	case s.json != nil, s.xlsx != nil:
		return true
	}
	return false
}

// Names lists the tables or sheets the source can switch to. JSON sources
// have none.
func (s *Source) Names(ctx context.Context) ([]string, error) {
	switch {
	case s.Type.IsDatabase():
		return dblib.ListTables(ctx, s.db, s.Type.databaseType())
	case s.xlsx != nil:
		return s.xlsx.Sheets(), nil
	}
	return nil, nil
}

// Switch shows another table or sheet. The returned model replaces Model.
func (s *Source) Switch(ctx context.Context, name string) error {
	switch {
	case s.Type.IsDatabase():
		return s.openSQL(ctx, datamodel.SQLSource{Table: name, Limit: s.limit})
	case s.xlsx != nil:
		m, err := datamodel.OpenXLSX(s.Path, name)
		if err != nil {
			return err
		}
		s.xlsx.Close()
		s.xlsx, s.Model, s.Name = m, m, name
		return nil
	}
	return fmt.Errorf("%s sources have a single table", s.Type)
}

// Query replaces the model with the result of a SQL query.
func (s *Source) Query(ctx context.Context, query string) error {
	if !s.Type.IsDatabase() {
		return fmt.Errorf("%s sources cannot run queries", s.Type)
	}
	q, err := cleanQuery(query)
	if err != nil {
		return err
	}
	return s.openSQL(ctx, datamodel.SQLSource{Query: q})
}

// Reload reads the source again. The model emits a reset instead of being
// replaced.
func (s *Source) Reload(ctx context.Context) error {
	switch {
	case s.sql != nil:
		return s.sql.Reload(ctx)
	case s.json != nil:
		return s.loadJSON()
	case s.xlsx != nil:
		return s.xlsx.Reload()
	}
	return nil
}

// Save writes file sources back to disk. Database writes happen per cell.
func (s *Source) Save() error {
	switch {
	case s.json != nil:
		return writeJSONDocument(s.Path, datamodel.JSONDocument{Schema: s.schema, Data: s.json.Rows()})
	case s.xlsx != nil:
		return s.xlsx.Save()
	}
	return nil
}

func (s *Source) Close() error {
	if s.xlsx != nil {
		s.xlsx.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func decodeJSONDocument(r io.Reader) (datamodel.JSONDocument, error) {
	var doc datamodel.JSONDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	return doc, nil
}

// writeJSONDocument replaces path through a temporary file in the same
// directory.
func writeJSONDocument(path string, doc datamodel.JSONDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dgrid-*.json")
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
