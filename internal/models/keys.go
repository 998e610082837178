package models

import "strings"

// NaturalKey normalizes a name or email into the lookup key stored next
// to it: lower-cased with runs of whitespace collapsed to single spaces.
// "Data   Science" and "data science" resolve to the same key. Name
// lookups are the only access path, so this is the uniqueness contract
// the database enforces.
func NaturalKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}
