package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// ParseDDL creates a Schema from a DDL string such as
// "ID STRING, NAME STRING NOT NULL, TAGS ARRAY<STRING>".
// Columns are nullable unless marked NOT NULL. Names containing
// whitespace or punctuation may be quoted with backticks.
func ParseDDL(ddl string) (tabula.Schema, error) {
	defs, err := splitTopLevel(ddl)
	if err != nil {
		return nil, err
	}
	var s tabula.Schema = CreateSchema()
	for _, def := range defs {
		if len(strings.TrimSpace(def)) == 0 {
			continue
		}
		name, rest, err := splitName(def)
		if err != nil {
			return nil, err
		}
		nullable := true
		upper := strings.ToUpper(strings.Join(strings.Fields(rest), " "))
		if strings.HasSuffix(upper, " NOT NULL") {
			nullable = false
			upper = strings.TrimSuffix(upper, " NOT NULL")
		}
		colType, err := ParseType(upper)
		if err != nil {
			return nil, errors.SchemaMismatchError{Column: name, Row: -1, Reason: err.Error()}
		}
		s, err = s.CreateColumn(name, colType, nullable)
		if err != nil {
			return nil, err
		}
	}
	if s.NumColumns() == 0 {
		return nil, errors.SchemaMismatchError{Row: -1, Reason: "DDL string defines no columns"}
	}
	return s, nil
}

// ParseType parses a single DDL type name, such as INT or ARRAY<STRING>
func ParseType(typeName string) (tabula.ColumnType, error) {
	t := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(typeName), " ", ""))
	if strings.HasPrefix(t, "ARRAY<") && strings.HasSuffix(t, ">") {
		elem, err := ParseType(t[len("ARRAY<") : len(t)-1])
		if err != nil {
			return nil, err
		}
		return &tabula.ArrayColumnType{Elem: elem}, nil
	}
	// strip precision, e.g. DECIMAL(10,2) or VARCHAR(32)
	if i := strings.IndexByte(t, '('); i > 0 && strings.HasSuffix(t, ")") {
		t = t[:i]
	}
	switch t {
	case "STRING", "VARCHAR", "CHAR", "TEXT":
		return &tabula.StringColumnType{}, nil
	case "INT", "INTEGER", "BIGINT", "LONG", "SMALLINT", "TINYINT", "SHORT", "BYTE":
		return &tabula.IntegerColumnType{}, nil
	case "DOUBLE", "FLOAT", "REAL", "DECIMAL", "NUMERIC":
		return &tabula.DoubleColumnType{}, nil
	case "DATE":
		return &tabula.DateColumnType{}, nil
	case "BOOLEAN", "BOOL":
		return &tabula.BooleanColumnType{}, nil
	}
	return nil, fmt.Errorf("unsupported column type %q", typeName)
}

// splitTopLevel splits a DDL string on commas which are not nested within <>, () or backticks
func splitTopLevel(ddl string) ([]string, error) {
	var parts []string
	depth := 0
	quoted := false
	start := 0
	for i, r := range ddl {
		switch {
		case r == '`':
			quoted = !quoted
		case quoted:
		case r == '<' || r == '(':
			depth++
		case r == '>' || r == ')':
			depth--
			if depth < 0 {
				return nil, errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("unbalanced %q at offset %d", r, i)}
			}
		case r == ',' && depth == 0:
			parts = append(parts, ddl[start:i])
			start = i + 1
		}
	}
	if depth != 0 || quoted {
		return nil, errors.SchemaMismatchError{Row: -1, Reason: "unterminated type or quoted name"}
	}
	return append(parts, ddl[start:]), nil
}

func splitName(def string) (name string, rest string, err error) {
	def = strings.TrimSpace(def)
	if strings.HasPrefix(def, "`") {
		var b strings.Builder
		i := 1
		for i < len(def) {
			if def[i] == '`' {
				if i+1 < len(def) && def[i+1] == '`' {
					b.WriteByte('`')
					i += 2
					continue
				}
				break
			}
			b.WriteByte(def[i])
			i++
		}
		if i >= len(def) {
			return "", "", errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("unterminated quoted name in %q", def)}
		}
		name, rest = b.String(), def[i+1:]
	} else {
		idx := strings.IndexFunc(def, unicode.IsSpace)
		if idx < 0 {
			return "", "", errors.SchemaMismatchError{Column: def, Row: -1, Reason: "missing column type"}
		}
		name, rest = def[:idx], def[idx:]
	}
	// tolerate "name: type"
	name = strings.TrimSuffix(name, ":")
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
	if len(strings.TrimSpace(rest)) == 0 {
		return "", "", errors.SchemaMismatchError{Column: name, Row: -1, Reason: "missing column type"}
	}
	return name, rest, nil
}

func needsQuoting(name string) bool {
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return true
		}
	}
	return false
}
