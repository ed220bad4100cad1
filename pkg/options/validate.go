package options

import "regexp"

// nameExpr implements spec.md §6's name constraint: 1-32 characters from
// [A-Za-z0-9_].
var nameExpr = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// ValidName reports whether name satisfies the store-name constraint.
func ValidName(name string) bool {
	return nameExpr.MatchString(name)
}
