package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query anywhere in a
// lower-cased column. Wildcards typed by the user match literally.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// applySearch ORs a case-insensitive substring match across columns.
// An empty query leaves the statement untouched.
func applySearch(db *gorm.DB, query string, columns ...string) *gorm.DB {
	if query == "" || len(columns) == 0 {
		return db
	}
	pattern := containsPattern(query)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}
