package utils

import (
	"fmt"
	"strings"
)

// joinWithAnd joins a slice of strings with AND operator
func joinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder gom các điều kiện WHERE và placeholder $n tương ứng
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Add appends a clause containing a single "?" that becomes the next $n placeholder
func (w *WhereBuilder) Add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

// SQL trả về "WHERE ..." hoặc chuỗi rỗng
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + joinWithAnd(w.clauses)
}

func (w *WhereBuilder) Args() []any {
	return w.args
}

// Next trả về placeholder kế tiếp, dùng cho LIMIT/OFFSET
func (w *WhereBuilder) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}
