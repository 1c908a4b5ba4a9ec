// Package storage holds helpers shared by the SQL job stores.
package storage

import (
	"strings"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect
type Placeholder func(n int) string

// BuildWhere renders filter as a WHERE clause with bind arguments. The query
// text matches case-insensitively against title, company and description.
func BuildWhere(filter domain.JobFilter, ph Placeholder) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", ph(len(args))))
	}

	if filter.Country != "" {
		add("country = ?", filter.Country)
	}
	if filter.Sector != "" {
		add("sector = ?", string(filter.Sector))
	}
	if filter.Source != "" {
		add("source = ?", string(filter.Source))
	}
	if filter.Remote != nil {
		add("is_remote = ?", *filter.Remote)
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		add("LOWER(title || ' ' || company || ' ' || description) LIKE ? ESCAPE '\\'", "%"+escapeLike(q)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Page returns the offset and limit for filter with defaults applied
func Page(filter domain.JobFilter) (offset, limit int) {
	offset = filter.Offset
	if offset < 0 {
		offset = 0
	}
	return offset, filter.EffectiveLimit()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
