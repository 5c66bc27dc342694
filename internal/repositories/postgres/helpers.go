package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// applyPagination clamps limit/offset to sane bounds before handing them to
// the query.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// applySort only accepts whitelisted columns so filter structs can pass
// user-supplied sort fields through safely.
func applySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "created_at"
	}
	if order := strings.ToLower(sortOrder); order != "asc" {
		sortOrder = "desc"
	} else {
		sortOrder = "asc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
