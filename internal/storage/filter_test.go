package storage

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

func dollar(n int) string { return "$" + strconv.Itoa(n) }
func question(int) string { return "?" }

func TestBuildWhere(t *testing.T) {
	remote := false
	where, args := BuildWhere(domain.JobFilter{
		Country: "IN",
		Sector:  "technology",
		Remote:  &remote,
		Query:   " 50%_Go ",
	}, dollar)

	assert.Equal(t, " WHERE country = $1 AND sector = $2 AND is_remote = $3 AND LOWER(title || ' ' || company || ' ' || description) LIKE $4 ESCAPE '\\'", where)
	assert.Equal(t, []any{"IN", "technology", false, `%50\%\_go%`}, args)

	where, args = BuildWhere(domain.JobFilter{Source: domain.SourceReed}, question)
	assert.Equal(t, " WHERE source = ?", where)
	assert.Equal(t, []any{"reed"}, args)
}

func TestBuildWhereEmpty(t *testing.T) {
	where, args := BuildWhere(domain.JobFilter{Query: "  "}, dollar)
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestPage(t *testing.T) {
	off, lim := Page(domain.JobFilter{Offset: -1})
	assert.Equal(t, 0, off)
	assert.Equal(t, domain.DefaultJobLimit, lim)

	off, lim = Page(domain.JobFilter{Offset: 20, Limit: 5})
	assert.Equal(t, 20, off)
	assert.Equal(t, 5, lim)
}
