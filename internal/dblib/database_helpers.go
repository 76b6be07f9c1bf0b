package dblib

import "strings"

// quoteIdent quotes an identifier for dbType, leaving obviously safe names
// bare.
func quoteIdent(dbType DatabaseType, ident string) string {
	if isSafeUnquotedIdent(ident) {
		return ident
	}
	if dbType == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return "\"" + strings.ReplaceAll(ident, "\"", "\"\"") + "\""
}

// quoteQualified quotes each dot separated part independently.
func quoteQualified(dbType DatabaseType, qualified string) string {
	parts := strings.Split(qualified, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(dbType, p)
	}
	return strings.Join(parts, ".")
}

// isSafeUnquotedIdent reports whether ident matches [a-z_][a-z0-9_]* and is
// not a common reserved word.
func isSafeUnquotedIdent(ident string) bool {
	if ident == "" {
		return false
	}
	c0 := ident[0]
	if !((c0 >= 'a' && c0 <= 'z') || c0 == '_') {
		return false
	}
	for i := 1; i < len(ident); i++ {
		c := ident[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	_, reserved := commonReservedIdents[ident]
	return !reserved
}

var commonReservedIdents = map[string]struct{}{
	"select": {}, "insert": {}, "update": {}, "delete": {}, "into": {}, "values": {},
	"create": {}, "alter": {}, "drop": {}, "table": {}, "index": {}, "view": {},
	"from": {}, "where": {}, "group": {}, "order": {}, "by": {}, "having": {},
	"limit": {}, "offset": {}, "join": {}, "inner": {}, "left": {}, "right": {}, "full": {}, "outer": {},
	"and": {}, "or": {}, "not": {}, "in": {}, "is": {}, "like": {}, "between": {}, "exists": {},
	"null": {}, "true": {}, "false": {},
	"as": {}, "on": {}, "key": {}, "default": {},
}

// normalizeValue converts driver values into the types the grid formats:
// []byte becomes string.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
