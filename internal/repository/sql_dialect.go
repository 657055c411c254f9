package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName returns the dialect name, sqlite by default.
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

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	// sqlite LIKE folds ASCII case only
	return "LIKE"
}

// containsCondition builds a case-insensitive substring match on column.
func containsCondition(db *gorm.DB, column string) string {
	return containsConditionByDialect(dbDialectName(db), column)
}

func containsConditionByDialect(dialect, column string) string {
	return fmt.Sprintf("%s %s ? ESCAPE '\\'", column, likeOperatorByDialect(dialect))
}

// containsArg wraps term in wildcards, escaping LIKE metacharacters.
func containsArg(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// jsonArrayContainsCondition matches rows whose json array column holds the bound value.
func jsonArrayContainsCondition(db *gorm.DB, column string) string {
	return jsonArrayContainsConditionByDialect(dbDialectName(db), column)
}

func jsonArrayContainsConditionByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("%s::jsonb @> ?::jsonb", column)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column)
}

// jsonArrayContainsArg returns the bound value matching jsonArrayContainsCondition.
func jsonArrayContainsArg(db *gorm.DB, item string) interface{} {
	return jsonArrayContainsArgByDialect(dbDialectName(db), item)
}

func jsonArrayContainsArgByDialect(dialect, item string) interface{} {
	if isPostgresDialect(dialect) {
		raw, _ := json.Marshal([]string{item})
		return string(raw)
	}
	return item
}
