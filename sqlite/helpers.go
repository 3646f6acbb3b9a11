package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout keeps sub-second precision so runs started within the same
// second still sort correctly.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad %s value %q: %w", column, value, err)
	}
	return t, nil
}

// selectQuery builds a SELECT from optional conditions.
type selectQuery struct {
	from  string
	conds []string
	args  []any
	order string
}

func (q *selectQuery) where(cond string, arg any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, arg)
}

// build renders the query. Non-positive limit and offset are left out.
func (q *selectQuery) build(limit, offset int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(q.from)
	if len(q.conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(q.conds, " AND "))
	}
	if q.order != "" {
		sb.WriteString(" ORDER BY " + q.order)
	}

	args := append([]any(nil), q.args...)
	switch {
	case limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	case offset > 0:
		// OFFSET needs a LIMIT; -1 means none.
		sb.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, offset)
	}
	return sb.String(), args
}
