package dblib

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

type SQLiteHandler struct{}

func (h *SQLiteHandler) CheckIsView(db *sql.DB, relationName string) (bool, error) {
	var kind string
	err := db.QueryRow("SELECT type FROM sqlite_master WHERE name = ?", relationName).Scan(&kind)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("relation %s does not exist", relationName)
	}
	if err != nil {
		return false, err
	}
	return kind == "view", nil
}

// tableInfo mirrors a row of PRAGMA table_info.
type tableInfo struct {
	cid     int
	name    string
	ctype   string
	notNull bool
	pk      int
}

func sqliteTableInfo(db *sql.DB, tableName string) ([]tableInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(SQLite, tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []tableInfo
	for rows.Next() {
		var info tableInfo
		var notNull int
		var dflt sql.NullString
		if err := rows.Scan(&info.cid, &info.name, &info.ctype, &notNull, &dflt, &info.pk); err != nil {
			return nil, err
		}
		info.notNull = notNull == 1
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (h *SQLiteHandler) LoadColumns(db *sql.DB, tableName string) ([]Column, error) {
	infos, err := sqliteTableInfo(db, tableName)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("table %s has no columns", tableName)
	}
	columns := make([]Column, 0, len(infos))
	for _, info := range infos {
		columns = append(columns, Column{
			Name:       info.name,
			Type:       info.ctype,
			Nullable:   !info.notNull && info.pk == 0,
			Table:      tableName,
			BaseColumn: info.name,
		})
	}
	return columns, nil
}

func (h *SQLiteHandler) LoadEnums(db *sql.DB, tableName string, columns []Column) ([]Column, error) {
	return columns, nil
}

func (h *SQLiteHandler) LookupKey(db *sql.DB, tableName string) ([]string, error) {
	infos, err := sqliteTableInfo(db, tableName)
	if err != nil {
		return nil, err
	}

	notNull := make(map[string]bool, len(infos))
	var pk []tableInfo
	for _, info := range infos {
		notNull[info.name] = info.notNull
		if info.pk > 0 {
			pk = append(pk, info)
		}
	}
	if len(pk) > 0 {
		sort.Slice(pk, func(i, j int) bool { return pk[i].pk < pk[j].pk })
		cols := make([]string, len(pk))
		for i, info := range pk {
			cols[i] = info.name
		}
		return cols, nil
	}

	rows, err := db.Query(fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(SQLite, tableName)))
	if err != nil {
		return nil, err
	}
	type index struct {
		name string
		cols []string
	}
	var names []string
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			continue
		}
		if unique == 1 && partial == 0 {
			names = append(names, name)
		}
	}
	rows.Close()

	var candidates []index
	for _, name := range names {
		ii, err := db.Query(fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(SQLite, name)))
		if err != nil {
			continue
		}
		idx := index{name: name}
		valid := true
		for ii.Next() {
			var seqno, cid int
			var cname sql.NullString
			if err := ii.Scan(&seqno, &cid, &cname); err != nil || !cname.Valid {
				valid = false
				continue
			}
			if !notNull[cname.String] {
				valid = false
			}
			idx.cols = append(idx.cols, cname.String)
		}
		ii.Close()
		if valid && len(idx.cols) > 0 {
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) == 0 {
		return []string{}, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].cols) != len(candidates[j].cols) {
			return len(candidates[i].cols) < len(candidates[j].cols)
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates[0].cols, nil
}

func (h *SQLiteHandler) QuoteIdent(ident string) string {
	if isSafeUnquotedIdent(ident) {
		return ident
	}
	return "\"" + strings.ReplaceAll(ident, "\"", "\"\"") + "\""
}

func (h *SQLiteHandler) Placeholder(position int) string {
	return "?"
}
