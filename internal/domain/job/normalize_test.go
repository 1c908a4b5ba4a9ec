package job

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func tagged(raw domain.RawJob, country string) domain.TaggedJob {
	if raw.Source == "" {
		raw.Source = domain.SourceAdzuna
	}
	return domain.TaggedJob{Raw: raw, Provider: raw.Source, CountryCode: country}
}

func TestNormalizeMapsFields(t *testing.T) {
	posted := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	n := NewNormalizer(nil)

	res := n.Normalize([]domain.TaggedJob{tagged(domain.RawJob{
		SourceID:       " 4101 ",
		Title:          "  Senior   Software Engineer ",
		Company:        "Acme",
		Location:       "Bengaluru, Karnataka",
		Description:    "<p>Build services in <b>Go</b> and React.</p><h3>Requirements:</h3><ul><li>5 years Go</li><li>Kubernetes</li></ul>",
		EmploymentType: "FULLTIME",
		SalaryMin:      ptr(1200000.0),
		SalaryMax:      ptr(1800000.0),
		ApplyURL:       " https://apply.example/4101 ",
		PostedAt:       &posted,
	}, "IN")})

	require.Len(t, res.Jobs, 1)
	j := res.Jobs[0]
	assert.Equal(t, domain.SourceAdzuna, j.Source)
	assert.Equal(t, "4101", j.SourceID)
	assert.Equal(t, "Senior Software Engineer", j.Title)
	assert.Equal(t, "IN", j.Country)
	assert.Equal(t, "Build services in Go and React.\nRequirements:\n- 5 years Go\n- Kubernetes", j.Description)
	assert.Equal(t, "- 5 years Go\n- Kubernetes", j.Requirements)
	assert.Equal(t, domain.SectorID("technology"), j.Sector)
	assert.GreaterOrEqual(t, j.SectorConfidence, 1)
	assert.Equal(t, []string{"React", "Kubernetes"}, j.Skills)
	assert.Equal(t, "full_time", j.EmploymentType)
	assert.Equal(t, "INR", j.SalaryCurrency)
	assert.Equal(t, "INR 1,200,000 - 1,800,000", j.Salary)
	assert.Equal(t, "https://apply.example/4101", j.ApplyURL)
	assert.Equal(t, &posted, j.PostedAt)
	assert.False(t, j.IsRemote)
	assert.False(t, j.IsUrgent)
}

func TestNormalizeInfersFlags(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize([]domain.TaggedJob{
		tagged(domain.RawJob{SourceID: "1", Title: "Remote Support Agent", Company: "A", SourceURL: "https://a.example/1", Description: "Urgent hire"}, "US"),
		tagged(domain.RawJob{SourceID: "2", Title: "Analyst", Company: "B", SourceURL: "https://b.example/2", Location: "London (Hybrid)"}, "GB"),
		tagged(domain.RawJob{SourceID: "3", Title: "Remote-friendly Analyst", Company: "C", SourceURL: "https://c.example/3", Remote: ptr(false), Hybrid: ptr(true)}, "GB"),
	})

	require.Len(t, res.Jobs, 3)
	assert.True(t, res.Jobs[0].IsRemote)
	assert.True(t, res.Jobs[0].IsUrgent)
	assert.False(t, res.Jobs[1].IsRemote)
	assert.True(t, res.Jobs[1].IsHybrid)
	assert.False(t, res.Jobs[2].IsRemote, "explicit provider flag wins over text")
	assert.True(t, res.Jobs[2].IsHybrid)
}

func TestNormalizeValidation(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize([]domain.TaggedJob{
		tagged(domain.RawJob{SourceID: "1", ApplyURL: "https://x.example/1"}, "US"),
		tagged(domain.RawJob{SourceID: "2", Title: "Nurse", Company: "NHS"}, "GB"),
		tagged(domain.RawJob{SourceID: "3", Company: "Only Company", SourceURL: "https://x.example/3"}, "US"),
		tagged(domain.RawJob{SourceID: "4", Title: "Only Title", ApplyURL: "https://x.example/4"}, "US"),
	})

	assert.Equal(t, 2, res.Invalid)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, "3", res.Jobs[0].SourceID)
	assert.Equal(t, "4", res.Jobs[1].SourceID)

	_, err := n.NormalizeOne(tagged(domain.RawJob{SourceID: "5", Title: "T", Company: "C"}, "US"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "ApplyURL")
}

func TestNormalizeRejectsUnknownSource(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := n.NormalizeOne(domain.TaggedJob{
		Raw:      domain.RawJob{Source: "monster", SourceID: "1", Title: "T", ApplyURL: "https://x.example"},
		Provider: "monster",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeDeduplicatesByTitleAndCompany(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize([]domain.TaggedJob{
		tagged(domain.RawJob{Source: domain.SourceAdzuna, SourceID: "a1", Title: "Data Engineer", Company: "Globex", ApplyURL: "https://a.example/1"}, "US"),
		tagged(domain.RawJob{Source: domain.SourceJSearch, SourceID: "j1", Title: "data  ENGINEER ", Company: "globex", ApplyURL: "https://j.example/1"}, "US"),
		tagged(domain.RawJob{Source: domain.SourceJSearch, SourceID: "j2", Title: "Data Engineer", Company: "Initech", ApplyURL: "https://j.example/2"}, "US"),
	})

	assert.Equal(t, 1, res.Duplicates)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, domain.SourceAdzuna, res.Jobs[0].Source, "first occurrence wins")
	assert.Equal(t, "j2", res.Jobs[1].SourceID)
}

func TestNormalizeDerivesSourceIDAndFallbacks(t *testing.T) {
	n := NewNormalizer(nil)
	raw := domain.RawJob{
		Source:    domain.SourceGoogle,
		Title:     "Barista",
		Company:   "Bean Co",
		Location:  "Dublin, Ireland",
		SourceURL: "https://google.example/jobs/1",
		Sector:    "Hospitality",
		Skills:    []string{" Latte Art ", "latte art", "", "Customer Service"},
		Salary:    "€14 an hour",
	}

	first, err := n.NormalizeOne(domain.TaggedJob{Raw: raw, Provider: domain.SourceGoogle})
	require.NoError(t, err)
	second, err := n.NormalizeOne(domain.TaggedJob{Raw: raw, Provider: domain.SourceGoogle})
	require.NoError(t, err)

	assert.NotEmpty(t, first.SourceID)
	assert.Equal(t, first.SourceID, second.SourceID, "derived ids are stable")
	assert.Equal(t, "IE", first.Country, "country detected from location")
	assert.Equal(t, domain.SectorID("hospitality"), first.Sector)
	assert.Equal(t, 1, first.SectorConfidence)
	assert.Equal(t, []string{"Latte Art", "Customer Service"}, first.Skills)
	assert.Equal(t, "€14 an hour", first.Salary)
	assert.Equal(t, "EUR", first.SalaryCurrency)
}

func TestNormalizeUnknownSectorHintFallsBackToClassifier(t *testing.T) {
	n := NewNormalizer(nil)
	j, err := n.NormalizeOne(tagged(domain.RawJob{
		SourceID: "1", Title: "Zzz", Company: "Qqq", ApplyURL: "https://x.example", Sector: "IT Jobs",
	}, ""))
	require.NoError(t, err)
	assert.Equal(t, domain.SectorGeneral, j.Sector)
	assert.Zero(t, j.SectorConfidence)
	assert.Empty(t, j.Country)
	assert.Empty(t, j.Salary)
	assert.Empty(t, j.SalaryCurrency)
	assert.NotNil(t, j.Skills)
}
