package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName returns the dialect name, defaulting to sqlite.
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildLikeCondition builds an OR chain of LIKE conditions over the given
// columns and returns the argument count.
func buildLikeCondition(db *gorm.DB, columns []string) (string, int) {
	operator := likeOperatorByDialect(dbDialectName(db))
	parts := make([]string, 0, len(columns))
	argCount := 0
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
		argCount++
	}
	return strings.Join(parts, " OR "), argCount
}

// repeatLikeArgs repeats the LIKE argument for each placeholder.
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
