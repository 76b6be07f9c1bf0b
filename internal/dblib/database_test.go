package dblib

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	tmpFile, err := os.CreateTemp("", "dgrid-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	db, err := sql.Open("sqlite3", tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER,
			score REAL
		)`,
		`CREATE TABLE tags (
			code TEXT NOT NULL,
			label TEXT
		)`,
		`CREATE UNIQUE INDEX tags_code ON tags(code)`,
		`CREATE TABLE notes (body TEXT)`,
		`CREATE VIEW adults AS SELECT id, name FROM users WHERE age >= 18`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to run %q: %v", stmt, err)
		}
	}

	testData := []struct {
		id    int
		name  string
		age   int
		score float64
	}{
		{1, "Alice", 30, 1.5},
		{2, "Bob", 25, 2},
		{3, "Charlie", 17, 3.25},
	}
	for _, row := range testData {
		_, err = db.Exec("INSERT INTO users (id, name, age, score) VALUES (?, ?, ?, ?)",
			row.id, row.name, row.age, row.score)
		if err != nil {
			t.Fatalf("Failed to insert test data: %v", err)
		}
	}
	return db
}

func TestNewRelation(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		table        string
		wantColumns  []string
		wantKey      []int
		wantView     bool
		wantEditable bool
	}{
		{"users", []string{"id", "name", "age", "score"}, []int{0}, false, true},
		{"tags", []string{"code", "label"}, []int{0}, false, true},
		{"notes", []string{"body"}, nil, false, false},
		{"adults", []string{"id", "name"}, nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			rel, err := NewRelation(db, SQLite, tt.table)
			if err != nil {
				t.Fatalf("NewRelation() error = %v", err)
			}
			if got := rel.ColumnNames(); !reflect.DeepEqual(got, tt.wantColumns) {
				t.Errorf("ColumnNames() = %v, want %v", got, tt.wantColumns)
			}
			if !reflect.DeepEqual(rel.Key, tt.wantKey) {
				t.Errorf("Key = %v, want %v", rel.Key, tt.wantKey)
			}
			if rel.IsView != tt.wantView {
				t.Errorf("IsView = %v, want %v", rel.IsView, tt.wantView)
			}
			if got := rel.Editable(); got != tt.wantEditable {
				t.Errorf("Editable() = %v, want %v", got, tt.wantEditable)
			}
		})
	}

	if _, err := NewRelation(db, SQLite, "missing"); err == nil {
		t.Errorf("NewRelation(missing) error = nil, want error")
	}
	if _, err := NewRelation(db, SQLite, ""); err == nil {
		t.Errorf("NewRelation(\"\") error = nil, want error")
	}
}

func TestLoadRows(t *testing.T) {
	db := setupTestDB(t)
	rel, err := NewRelation(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewRelation() error = %v", err)
	}

	rows, err := rel.LoadRows(context.Background(), 0)
	if err != nil {
		t.Fatalf("LoadRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if got := rows[1][1]; got != "Bob" {
		t.Errorf("rows[1][1] = %#v, want %q", got, "Bob")
	}
	if got := rows[2][0]; got != int64(3) {
		t.Errorf("rows[2][0] = %#v, want int64(3)", got)
	}

	limited, err := rel.LoadRows(context.Background(), 2)
	if err != nil {
		t.Fatalf("LoadRows(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(LoadRows(2)) = %d, want 2", len(limited))
	}
}

func TestUpdateValue(t *testing.T) {
	db := setupTestDB(t)
	rel, err := NewRelation(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewRelation() error = %v", err)
	}
	ctx := context.Background()

	if err := rel.UpdateValue(ctx, []any{int64(2)}, "name", "Robert"); err != nil {
		t.Fatalf("UpdateValue() error = %v", err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM users WHERE id = 2").Scan(&name); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if name != "Robert" {
		t.Errorf("name = %q, want %q", name, "Robert")
	}

	if err := rel.UpdateValue(ctx, []any{int64(99)}, "name", "x"); !errors.Is(err, ErrNoRowMatched) {
		t.Errorf("UpdateValue(missing row) error = %v, want ErrNoRowMatched", err)
	}
	if err := rel.UpdateValue(ctx, []any{int64(1)}, "nope", "x"); err == nil {
		t.Errorf("UpdateValue(unknown column) error = nil, want error")
	}
	if err := rel.UpdateValue(ctx, []any{}, "name", "x"); err == nil {
		t.Errorf("UpdateValue(short key) error = nil, want error")
	}

	view, err := NewRelation(db, SQLite, "adults")
	if err != nil {
		t.Fatalf("NewRelation(adults) error = %v", err)
	}
	if err := view.UpdateValue(ctx, []any{int64(1)}, "name", "x"); err == nil {
		t.Errorf("UpdateValue() on a view error = nil, want error")
	}
}

func TestKeyValues(t *testing.T) {
	rel := &Relation{Key: []int{2, 0}}
	got := rel.KeyValues([]any{"a", "b", "c"})
	if want := []any{"c", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("KeyValues() = %v, want %v", got, want)
	}
}

func TestRunQuery(t *testing.T) {
	db := setupTestDB(t)
	result, err := RunQuery(context.Background(), db, "SELECT name, age * 2 AS double_age FROM users WHERE id < ? ORDER BY id", 3)
	if err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}
	if want := []string{"name", "double_age"}; !reflect.DeepEqual(result.Columns, want) {
		t.Errorf("Columns = %v, want %v", result.Columns, want)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
	if got := result.Rows[0][1]; got != int64(60) {
		t.Errorf("Rows[0][1] = %#v, want int64(60)", got)
	}

	if _, err := RunQuery(context.Background(), db, "SELECT * FROM missing"); err == nil {
		t.Errorf("RunQuery(missing) error = nil, want error")
	}
}

func TestListTables(t *testing.T) {
	db := setupTestDB(t)
	tables, err := ListTables(context.Background(), db, SQLite)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if want := []string{"notes", "tags", "users"}; !reflect.DeepEqual(tables, want) {
		t.Errorf("ListTables() = %v, want %v", tables, want)
	}
}

func TestAnalyzeQuery(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		wantTable   string
		wantSingle  bool
		wantColumns []ColumnLineage
	}{
		{
			name:       "wildcard",
			sql:        "SELECT * FROM users",
			wantTable:  "users",
			wantSingle: true,
			wantColumns: []ColumnLineage{
				{SourceTable: "users", Wildcard: true},
			},
		},
		{
			name:       "alias and expression",
			sql:        "SELECT u.id, u.name AS who, age + 1 FROM users u WHERE age > 3",
			wantTable:  "users",
			wantSingle: true,
			wantColumns: []ColumnLineage{
				{SourceTable: "users", SourceColumn: "id"},
				{SourceTable: "users", SourceColumn: "name"},
				{IsDerived: true},
			},
		},
		{
			name:       "join",
			sql:        "SELECT u.name, t.label FROM users u JOIN tags t ON t.code = u.name",
			wantSingle: false,
			wantColumns: []ColumnLineage{
				{SourceTable: "users", SourceColumn: "name"},
				{SourceTable: "tags", SourceColumn: "label"},
			},
		},
		{
			name:       "group by",
			sql:        "SELECT age, COUNT(*) FROM users GROUP BY age",
			wantSingle: false,
			wantColumns: []ColumnLineage{
				{SourceTable: "users", SourceColumn: "age"},
				{IsDerived: true},
			},
		},
		{
			name:       "distinct",
			sql:        "SELECT DISTINCT name FROM users",
			wantSingle: false,
			wantColumns: []ColumnLineage{
				{SourceTable: "users", SourceColumn: "name"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := AnalyzeQuery(tt.sql)
			if err != nil {
				t.Fatalf("AnalyzeQuery() error = %v", err)
			}
			table, single := a.SingleTable()
			if single != tt.wantSingle || table != tt.wantTable {
				t.Errorf("SingleTable() = (%q, %v), want (%q, %v)", table, single, tt.wantTable, tt.wantSingle)
			}
			if !reflect.DeepEqual(a.Columns, tt.wantColumns) {
				t.Errorf("Columns = %+v, want %+v", a.Columns, tt.wantColumns)
			}
		})
	}

	for _, bad := range []string{"UPDATE users SET name = 'x'", "SELECT FROM", "SELECT 1; SELECT 2"} {
		if _, err := AnalyzeQuery(bad); err == nil {
			t.Errorf("AnalyzeQuery(%q) error = nil, want error", bad)
		}
	}
}

func TestTypeKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INTEGER", "integer"},
		{"bigint", "integer"},
		{"REAL", "number"},
		{"double precision", "number"},
		{"numeric(10,2)", "number"},
		{"boolean", "boolean"},
		{"tinyint(1)", "boolean"},
		{"DATE", "date"},
		{"timestamp with time zone", "date"},
		{"TEXT", "string"},
		{"varchar(20)", "string"},
		{"", "string"},
	}
	for _, tt := range tests {
		if got := TypeKind(tt.in); got != tt.want {
			t.Errorf("TypeKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		dbType DatabaseType
		in     string
		want   string
	}{
		{SQLite, "users", "users"},
		{SQLite, "User Name", `"User Name"`},
		{SQLite, `a"b`, `"a""b"`},
		{PostgreSQL, "order", `"order"`},
		{MySQL, "Order", "`Order`"},
		{MySQL, "a`b", "`a``b`"},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.dbType, tt.in); got != tt.want {
			t.Errorf("quoteIdent(%v, %q) = %s, want %s", tt.dbType, tt.in, got, tt.want)
		}
	}
	if got := quoteQualified(PostgreSQL, "public.Users"); got != `public."Users"` {
		t.Errorf("quoteQualified() = %s", got)
	}
}

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"enum('active','inactive')", []string{"active", "inactive"}},
		{"ENUM('it''s','a,b')", []string{"it's", "a,b"}},
		{"varchar(10)", nil},
	}
	for _, tt := range tests {
		if got := parseEnumValues(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseEnumValues(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDatabaseType(t *testing.T) {
	for _, name := range []string{"sqlite", "postgres", "mysql"} {
		dbType, err := ParseDatabaseType(name)
		if err != nil {
			t.Fatalf("ParseDatabaseType(%q) error = %v", name, err)
		}
		if got := dbType.String(); got != name {
			t.Errorf("String() = %q, want %q", got, name)
		}
	}
	if _, err := ParseDatabaseType("oracle"); err == nil {
		t.Errorf("ParseDatabaseType(oracle) error = nil, want error")
	}
}
