package datamodel

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dgrid/internal/dblib"
)

// SQLSource selects what a SQLModel loads: a table, or a SELECT statement
// when Query is set.
type SQLSource struct {
	Table string
	Query string
	Limit int // table rows to load, 0 for all
}

// SQLModel holds the result of a query. Cells are writable when the source
// resolves to a single keyed base table and the result includes its key.
type SQLModel struct {
	Base

	db      *sql.DB
	dbType  dblib.DatabaseType
	source  SQLSource
	timeout time.Duration

	rel     *dblib.Relation
	columns []string
	kinds   []string
	enums   [][]string
	relCols []int // result column -> relation column, -1 when unmapped
	keyCols []int // result columns holding the relation key
	rows    [][]any
}

// OpenSQL runs the source and returns a model over its result.
func OpenSQL(ctx context.Context, db *sql.DB, dbType dblib.DatabaseType, source SQLSource) (*SQLModel, error) {
	if source.Table == "" && source.Query == "" {
		return nil, fmt.Errorf("a table or a query is required")
	}
	m := &SQLModel{db: db, dbType: dbType, source: source, timeout: 10 * time.Second}
	if err := m.load(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SQLModel) load(ctx context.Context) error {
	var rel *dblib.Relation
	var lineage []dblib.ColumnLineage
	query := m.source.Query

	if query == "" {
		r, err := dblib.NewRelation(m.db, m.dbType, m.source.Table)
		if err != nil {
			return err
		}
		rel = r
		query = rel.SelectQuery(m.source.Limit)
	} else if analysis, err := dblib.AnalyzeQuery(query); err != nil {
		debugLog("AnalyzeQuery: %v\n", err)
	} else if table, ok := analysis.SingleTable(); ok {
		if r, err := dblib.NewRelation(m.db, m.dbType, table); err == nil {
			rel = r
			lineage = expandLineage(analysis.Columns, rel)
		} else {
			debugLog("NewRelation(%s): %v\n", table, err)
		}
	}

	result, err := dblib.RunQuery(ctx, m.db, query)
	if err != nil {
		return err
	}

	n := len(result.Columns)
	m.rel = rel
	m.columns = result.Columns
	m.rows = result.Rows
	m.kinds = make([]string, n)
	m.enums = make([][]string, n)
	m.relCols = make([]int, n)
	m.keyCols = nil

	for i, name := range result.Columns {
		m.relCols[i] = -1
		m.kinds[i] = dblib.TypeKind(result.Types[i])
		if rel == nil {
			continue
		}
		source := name
		if lineage != nil {
			if len(lineage) != n || lineage[i].IsDerived {
				continue
			}
			source = lineage[i].SourceColumn
		}
		if idx, ok := rel.ColumnIndex[source]; ok {
			m.relCols[i] = idx
			m.kinds[i] = rel.Columns[idx].Kind()
			m.enums[i] = rel.Columns[idx].EnumValues
		}
	}

	if rel != nil && rel.Editable() {
		for _, k := range rel.Key {
			pos := -1
			for i, idx := range m.relCols {
				if idx == k {
					pos = i
					break
				}
			}
			if pos < 0 {
				m.keyCols = nil
				break
			}
			m.keyCols = append(m.keyCols, pos)
		}
	}
	return nil
}

// expandLineage replaces wildcard entries with the relation's columns.
func expandLineage(columns []dblib.ColumnLineage, rel *dblib.Relation) []dblib.ColumnLineage {
	var out []dblib.ColumnLineage
	for _, c := range columns {
		if !c.Wildcard {
			out = append(out, c)
			continue
		}
		for _, name := range rel.ColumnNames() {
			out = append(out, dblib.ColumnLineage{SourceTable: rel.Name, SourceColumn: name})
		}
	}
	return out
}

// Editable reports whether any cell can be written.
func (m *SQLModel) Editable() bool {
	return len(m.keyCols) > 0
}

// Relation returns the base table behind the result, or nil.
func (m *SQLModel) Relation() *dblib.Relation { return m.rel }

// Reload runs the source again and resets the model.
func (m *SQLModel) Reload(ctx context.Context) error {
	if err := m.load(ctx); err != nil {
		return err
	}
	m.EmitChanged(ChangedArgs{Type: ModelReset})
	return nil
}

func (m *SQLModel) RowCount(region Region) int {
	if region == Body {
		return len(m.rows)
	}
	return 1
}

func (m *SQLModel) ColumnCount(region Region) int {
	if region == Body {
		return len(m.columns)
	}
	return 1
}

func (m *SQLModel) Data(region Region, row, column int) any {
	switch region {
	case Body:
		if row < 0 || row >= len(m.rows) || column < 0 || column >= len(m.rows[row]) {
			return nil
		}
		return m.rows[row][column]
	case RowHeader:
		return int64(row + 1)
	case ColumnHeader:
		if column < 0 || column >= len(m.columns) {
			return nil
		}
		return m.columns[column]
	case CornerHeader:
		return "#"
	}
	return nil
}

func (m *SQLModel) Metadata(region Region, row, column int) Metadata {
	if region == RowHeader || region == CornerHeader {
		return Metadata{Type: "integer"}
	}
	if column < 0 || column >= len(m.columns) {
		return Metadata{}
	}
	md := Metadata{Name: m.columns[column], Type: m.kinds[column]}
	if len(m.enums[column]) > 0 {
		enum := make([]any, len(m.enums[column]))
		for i, v := range m.enums[column] {
			enum[i] = v
		}
		md.Constraint = &Constraint{Enum: enum}
	}
	return md
}

// SetData updates the database row behind a body cell.
func (m *SQLModel) SetData(region Region, row, column int, value any) error {
	if region != Body || !m.Editable() {
		return ErrReadOnly
	}
	if row < 0 || row >= len(m.rows) || column < 0 || column >= len(m.columns) {
		return fmt.Errorf("cell (%d, %d) out of range", row, column)
	}
	relCol := m.relCols[column]
	if relCol < 0 || m.rel.Columns[relCol].Generated {
		return ErrReadOnly
	}

	key := make([]any, len(m.keyCols))
	for i, pos := range m.keyCols {
		key[i] = m.rows[row][pos]
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.rel.UpdateValue(ctx, key, m.rel.Columns[relCol].Name, value); err != nil {
		return err
	}

	m.rows[row][column] = value
	m.EmitChanged(ChangedArgs{
		Type:       CellsChanged,
		Region:     Body,
		Row:        row,
		Column:     column,
		RowSpan:    1,
		ColumnSpan: 1,
	})
	return nil
}

var _ MutableDataModel = (*SQLModel)(nil)
