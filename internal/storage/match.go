package storage

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// Fields exposes a record's logical fields to the in-memory matcher.
// Optional values are passed as pointers; a nil pointer is a NULL.
type Fields map[string]any

// Match reports whether a record with the given fields satisfies every
// predicate in q. It mirrors the SQL semantics of SQLBuilder: comparisons
// against NULL are false and an empty In matches nothing.
func Match(q Query, f Fields) (bool, error) {
	for _, p := range q.Where {
		raw, ok := f[p.Field]
		if !ok {
			return false, fmt.Errorf("unknown query field %q", p.Field)
		}
		v := deref(raw)

		switch p.Op {
		case OpNotNull:
			if v == nil {
				return false, nil
			}
		case OpEq:
			if v == nil || !equal(v, deref(p.Value)) {
				return false, nil
			}
		case OpIn:
			s, isString := v.(string)
			values, _ := p.Value.([]string)
			if !isString || !slices.Contains(values, s) {
				return false, nil
			}
		case OpGte, OpLte, OpLt:
			t, isTime := v.(time.Time)
			bound, _ := p.Value.(time.Time)
			if !isTime {
				return false, nil
			}
			switch {
			case p.Op == OpGte && t.Before(bound):
				return false, nil
			case p.Op == OpLte && t.After(bound):
				return false, nil
			case p.Op == OpLt && !t.Before(bound):
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	return true, nil
}

// Apply filters, sorts and limits records in memory according to q.
func Apply[T any](q Query, records []T, fields func(*T) Fields) ([]T, error) {
	out := make([]T, 0, len(records))
	for i := range records {
		ok, err := Match(q, fields(&records[i]))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, records[i])
		}
	}

	if q.OrderBy != "" {
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			a, okA := fields(&out[i])[q.OrderBy]
			b, okB := fields(&out[j])[q.OrderBy]
			if !okA || !okB {
				sortErr = fmt.Errorf("unknown order field %q", q.OrderBy)
				return false
			}
			if q.Descending {
				return less(deref(b), deref(a))
			}
			return less(deref(a), deref(b))
		})
		if sortErr != nil {
			return nil, sortErr
		}
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func deref(v any) any {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}

func equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// less orders NULLs first, like SQLite.
func less(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Before(y)
	case string:
		y, _ := b.(string)
		return x < y
	case bool:
		y, _ := b.(bool)
		return !x && y
	}
	return false
}
