package storage

import (
	"fmt"
	"strings"
	"time"
)

// Logical field names understood by every store backend.
const (
	FieldID          = "id"
	FieldPropertyID  = "propertyId"
	FieldUnitID      = "unitId"
	FieldStatus      = "status"
	FieldIsIncome    = "isIncome"
	FieldDate        = "date"
	FieldEntityType  = "entityType"
	FieldEntityID    = "entityId"
	FieldCreatedAt   = "createdAt"
	FieldContractEnd = "contractEnd"
	FieldName        = "name"
)

// Op is a comparison operator in a Predicate.
type Op string

// Supported operators. Gte and Lte are inclusive.
const (
	OpEq      Op = "eq"
	OpIn      Op = "in"
	OpGte     Op = "gte"
	OpLte     Op = "lte"
	OpLt      Op = "lt"
	OpNotNull Op = "notnull"
)

// Predicate is a single condition on a logical field.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Query is a backend-independent list specification: predicates are ANDed.
type Query struct {
	Where      []Predicate
	OrderBy    string
	Descending bool
	Limit      int
}

// NewQuery returns an empty query that matches everything.
func NewQuery() Query {
	return Query{}
}

// Eq adds field == value.
func (q Query) Eq(field string, value any) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpEq, Value: value})
	return q
}

// In adds field IN values. An empty list matches nothing.
func (q Query) In(field string, values []string) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpIn, Value: values})
	return q
}

// Gte adds field >= t.
func (q Query) Gte(field string, t time.Time) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpGte, Value: t})
	return q
}

// Lte adds field <= t.
func (q Query) Lte(field string, t time.Time) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpLte, Value: t})
	return q
}

// Lt adds field < t.
func (q Query) Lt(field string, t time.Time) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpLt, Value: t})
	return q
}

// NotNull adds field IS NOT NULL.
func (q Query) NotNull(field string) Query {
	q.Where = append(cloneWhere(q.Where), Predicate{Field: field, Op: OpNotNull})
	return q
}

// OrderByAsc sorts ascending by field.
func (q Query) OrderByAsc(field string) Query {
	q.OrderBy, q.Descending = field, false
	return q
}

// OrderByDesc sorts descending by field.
func (q Query) OrderByDesc(field string) Query {
	q.OrderBy, q.Descending = field, true
	return q
}

// Take limits the number of results. Zero means no limit.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// cloneWhere keeps derived queries from sharing a backing array.
func cloneWhere(w []Predicate) []Predicate {
	out := make([]Predicate, len(w), len(w)+1)
	copy(out, w)
	return out
}

// SQLBuilder translates a Query into a SQL suffix using a column whitelist.
type SQLBuilder struct {
	columns map[string]string
}

// NewSQLBuilder creates a builder for a table whose logical fields map to columns.
func NewSQLBuilder(columns map[string]string) SQLBuilder {
	return SQLBuilder{columns: columns}
}

// Build returns the WHERE/ORDER BY/LIMIT clause and its arguments.
func (b SQLBuilder) Build(q Query) (string, []any, error) {
	var (
		conds []string
		args  []any
	)

	for _, p := range q.Where {
		col, ok := b.columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown query field %q", p.Field)
		}

		switch p.Op {
		case OpEq:
			conds = append(conds, col+" = ?")
			args = append(args, p.Value)
		case OpGte:
			conds = append(conds, col+" >= ?")
			args = append(args, sqlValue(p.Value))
		case OpLte:
			conds = append(conds, col+" <= ?")
			args = append(args, sqlValue(p.Value))
		case OpLt:
			conds = append(conds, col+" < ?")
			args = append(args, sqlValue(p.Value))
		case OpNotNull:
			conds = append(conds, col+" IS NOT NULL")
		case OpIn:
			values, _ := p.Value.([]string)
			if len(values) == 0 {
				conds = append(conds, "1 = 0")
				continue
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			conds = append(conds, col+" IN ("+placeholders+")")
			for _, v := range values {
				args = append(args, v)
			}
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}

	var sb strings.Builder
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if q.OrderBy != "" {
		col, ok := b.columns[q.OrderBy]
		if !ok {
			return "", nil, fmt.Errorf("unknown order field %q", q.OrderBy)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(col)
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	return sb.String(), args, nil
}

// sqlValue normalizes times to UTC so text comparisons in SQLite stay ordered.
func sqlValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return v
}
