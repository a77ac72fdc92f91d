package search

import (
	"time"
)

// Clause is a single predicate against an indexed field. Clauses in a list
// are combined with logical AND by the engine.
type Clause struct {
	Field string
	Op    Op
	Str   string // value for OpEq
	Num   int64  // value for OpGTE / OpLTE
}

type Op int

const (
	OpEq Op = iota
	OpGTE
	OpLTE
)

const dateLayout = "2006-01-02"

// Eq builds an exact-match equality clause.
func Eq(field, value string) Clause {
	return Clause{Field: field, Op: OpEq, Str: value}
}

// BuildClauses translates a Selection into predicate clauses. It is a pure
// function of its input: string filters become exact-match equality clauses,
// the date range becomes epoch-second bounds on published_at_ts. An empty
// selection yields an empty list, which the engine treats as match-all.
func BuildClauses(sel Selection) []Clause {
	var clauses []Clause

	if sel.SourceSlug != "" {
		clauses = append(clauses, Eq("source_slug", sel.SourceSlug))
	}
	if sel.CategorySlug != "" {
		clauses = append(clauses, Eq("category_slug", sel.CategorySlug))
	}
	if sel.AuthorName != "" {
		clauses = append(clauses, Eq("author_name", sel.AuthorName))
	}

	fromTS, hasFrom := dayStart(sel.DateFrom)
	toTS, hasTo := dayEnd(sel.DateTo)

	// A reversed range is treated as user input with the ends swapped,
	// not as an error.
	if hasFrom && hasTo && fromTS > toTS {
		fromDay, _ := dayStart(sel.DateTo)
		toDay, _ := dayEnd(sel.DateFrom)
		fromTS, toTS = fromDay, toDay
	}

	if hasFrom {
		clauses = append(clauses, Clause{Field: "published_at_ts", Op: OpGTE, Num: fromTS})
	}
	if hasTo {
		clauses = append(clauses, Clause{Field: "published_at_ts", Op: OpLTE, Num: toTS})
	}

	return clauses
}

// dayStart returns 00:00:00 of the given calendar day in epoch seconds.
// Unparseable values are ignored, matching how the request layer treats
// malformed date input.
func dayStart(day string) (int64, bool) {
	t, err := time.ParseInLocation(dateLayout, day, time.Local)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

// dayEnd returns 23:59:59 of the given calendar day in epoch seconds.
func dayEnd(day string) (int64, bool) {
	t, err := time.ParseInLocation(dateLayout, day, time.Local)
	if err != nil {
		return 0, false
	}
	return t.Add(24*time.Hour - time.Second).Unix(), true
}
