package tenant

import "fmt"

// Column is the partition column carried by every tenant-scoped table.
const Column = "group_prefix"

// Query is any query builder that can take an extra WHERE condition with
// ? placeholders.
type Query[T any] interface {
	Where(cond string, args ...any) T
}

// Predicate returns the shared-or-own condition on column: rows with an
// empty/NULL prefix are common to all tenants, and a non-empty scope adds
// its own rows.
func Predicate(column, scope string) (string, []any) {
	if scope != "" {
		return fmt.Sprintf("(%[1]s IS NULL OR %[1]s = '' OR %[1]s = ?)", column), []any{scope}
	}
	return fmt.Sprintf("(%[1]s IS NULL OR %[1]s = '')", column), nil
}

// ExactPredicate returns the condition for rows owned by scope only. An empty
// scope matches the common rows.
func ExactPredicate(column, scope string) (string, []any) {
	return fmt.Sprintf("COALESCE(%s, '') = ?", column), []any{scope}
}

// ApplyScope adds the shared-or-own predicate on group_prefix.
func ApplyScope[T Query[T]](q T, scope string) T {
	return ApplyScopeOn(q, Column, scope)
}

// ApplyScopeOn is ApplyScope for an aliased column such as "u.group_prefix".
func ApplyScopeOn[T Query[T]](q T, column, scope string) T {
	cond, args := Predicate(column, scope)
	return q.Where(cond, args...)
}

// ApplyExact restricts q to rows owned by scope.
func ApplyExact[T Query[T]](q T, scope string) T {
	return ApplyExactOn(q, Column, scope)
}

func ApplyExactOn[T Query[T]](q T, column, scope string) T {
	cond, args := ExactPredicate(column, scope)
	return q.Where(cond, args...)
}
