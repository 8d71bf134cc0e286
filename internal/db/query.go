package db

import (
	"context"
	"strings"
	"time"

	"github.com/dori/taskhub/internal/paging"
)

// where accumulates ANDed filter predicates and their arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// contains adds a case-insensitive substring match on column.
func (w *where) contains(column, s string) {
	if s == "" {
		return
	}
	w.add("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", "%"+escapeLike(s)+"%")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// count runs SELECT COUNT(*) over from with the filter applied.
func (q *Queries) count(ctx context.Context, from string, w *where) (int, error) {
	var total int
	err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+w.String(), w.args...).Scan(&total)
	return total, err
}

// pageArgs appends LIMIT/OFFSET arguments for r to the filter arguments.
func pageArgs(w *where, r paging.Request) []any {
	args := make([]any, 0, len(w.args)+2)
	args = append(args, w.args...)
	return append(args, r.Take(), r.Skip())
}

// now returns the timestamp written to created_at/updated_at columns
func now() time.Time {
	return time.Now().UTC()
}

// setter accumulates the SET clause of a partial update.
type setter struct {
	cols []string
	args []any
}

func (s *setter) set(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

// build returns the UPDATE statement for table. updated_at is always bumped,
// so the SET clause is never empty.
func (s *setter) build(table string, id int64) (string, []any) {
	s.set("updated_at", now())
	args := append(s.args, id)
	return "UPDATE " + table + " SET " + strings.Join(s.cols, ", ") + " WHERE id = ?", args
}

// inClause returns "(?, ?, ...)" for n placeholders.
func inClause(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}
