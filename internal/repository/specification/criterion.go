package specification

import "strings"

// Criterion is a SQL predicate with positional "?" placeholders. The zero
// value matches every row.
type Criterion struct {
	SQL  string
	Args []any
}

func (c Criterion) IsZero() bool {
	return c.SQL == ""
}

// Eq matches column = v.
func Eq(column string, v any) Criterion {
	return Criterion{SQL: column + " = ?", Args: []any{v}}
}

// ContainsFold matches rows whose column contains term, ignoring case.
// LIKE wildcards in term are matched literally.
func ContainsFold(column, term string) Criterion {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return Criterion{SQL: "LOWER(" + column + ") LIKE ?", Args: []any{pattern}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// And joins the non-zero criteria. Each operand is parenthesized.
func And(cs ...Criterion) Criterion {
	var parts []string
	var args []any
	for _, c := range cs {
		if c.IsZero() {
			continue
		}
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	switch len(parts) {
	case 0:
		return Criterion{}
	case 1:
		return Criterion{SQL: parts[0], Args: args}
	}
	return Criterion{SQL: "(" + strings.Join(parts, ") AND (") + ")", Args: args}
}

// When returns c if cond holds and the match-all criterion otherwise.
func When(cond bool, c Criterion) Criterion {
	if !cond {
		return Criterion{}
	}
	return c
}
