package dblib

import (
	"fmt"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// QueryAnalysis describes where the output columns of a SELECT come from.
type QueryAnalysis struct {
	Columns     []ColumnLineage
	BaseTables  []string
	HasGroupBy  bool
	HasDistinct bool
	HasJoin     bool
	HasCTE      bool
}

// ColumnLineage tracks the source of one SELECT field.
type ColumnLineage struct {
	SourceTable  string // base table, empty when derived
	SourceColumn string // column in SourceTable, empty when derived
	IsDerived    bool   // aggregates, expressions, literals
	Wildcard     bool   // * or t.*, expanded by the caller
}

// AnalyzeQuery parses a single SELECT statement. Table aliases are resolved
// to table names; views are not followed.
func AnalyzeQuery(sqlStr string) (*QueryAnalysis, error) {
	p := parser.New()
	stmtNodes, _, err := p.Parse(sqlStr, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse SQL: %w", err)
	}
	if len(stmtNodes) == 0 {
		return nil, fmt.Errorf("no SQL statement found")
	}
	if len(stmtNodes) > 1 {
		return nil, fmt.Errorf("expected a single statement, got %d", len(stmtNodes))
	}
	stmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok {
		return nil, fmt.Errorf("expected SELECT statement, got %T", stmtNodes[0])
	}

	analysis := &QueryAnalysis{
		HasDistinct: stmt.Distinct,
		HasGroupBy:  stmt.GroupBy != nil,
		HasCTE:      stmt.With != nil,
	}

	aliases := map[string]string{}
	if stmt.From != nil && stmt.From.TableRefs != nil {
		tables, join, err := extractTables(stmt.From.TableRefs, aliases)
		if err != nil {
			return nil, err
		}
		analysis.BaseTables = tables
		analysis.HasJoin = join
	}

	if stmt.Fields != nil {
		for _, field := range stmt.Fields.Fields {
			analysis.Columns = append(analysis.Columns, analyzeField(field, analysis.BaseTables, aliases))
		}
	}
	return analysis, nil
}

// SingleTable returns the table a query reads when every output row maps to
// exactly one row of that table.
func (a *QueryAnalysis) SingleTable() (string, bool) {
	if a.HasJoin || a.HasGroupBy || a.HasDistinct || a.HasCTE || len(a.BaseTables) != 1 {
		return "", false
	}
	return a.BaseTables[0], true
}

// extractTables collects table names from a FROM clause and records aliases.
func extractTables(node ast.ResultSetNode, aliases map[string]string) ([]string, bool, error) {
	switch ref := node.(type) {
	case *ast.TableSource:
		switch src := ref.Source.(type) {
		case *ast.TableName:
			name := src.Name.String()
			if alias := ref.AsName.String(); alias != "" {
				aliases[alias] = name
			}
			return []string{name}, false, nil
		case *ast.Join:
			return extractTables(src, aliases)
		default:
			// derived tables never map back to base rows
			return []string{}, true, nil
		}
	case *ast.Join:
		left, _, err := extractTables(ref.Left, aliases)
		if err != nil {
			return nil, false, err
		}
		if ref.Right == nil {
			return left, false, nil
		}
		right, _, err := extractTables(ref.Right, aliases)
		if err != nil {
			return nil, false, err
		}
		return append(left, right...), true, nil
	case *ast.TableName:
		return []string{ref.Name.String()}, false, nil
	}
	return nil, false, fmt.Errorf("unsupported table reference type: %T", node)
}

func analyzeField(field *ast.SelectField, tables []string, aliases map[string]string) ColumnLineage {
	if field.WildCard != nil {
		lineage := ColumnLineage{Wildcard: true}
		if t := field.WildCard.Table.String(); t != "" {
			lineage.SourceTable = resolveAlias(t, aliases)
		} else if len(tables) == 1 {
			lineage.SourceTable = tables[0]
		}
		return lineage
	}

	colExpr, ok := field.Expr.(*ast.ColumnNameExpr)
	if !ok {
		return ColumnLineage{IsDerived: true}
	}
	name := colExpr.Name
	table := name.Table.String()
	if table != "" {
		table = resolveAlias(table, aliases)
	} else if len(tables) == 1 {
		table = tables[0]
	}
	if table == "" {
		return ColumnLineage{IsDerived: true}
	}
	return ColumnLineage{SourceTable: table, SourceColumn: name.Name.String()}
}

func resolveAlias(name string, aliases map[string]string) string {
	if resolved, ok := aliases[name]; ok {
		return resolved
	}
	return name
}
