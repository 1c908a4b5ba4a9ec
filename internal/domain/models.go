package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobID uniquely identifies a stored job
type JobID = uuid.UUID

// SectorID references a static sector definition
type SectorID string

// SectorGeneral is the sentinel for unclassified jobs
const SectorGeneral SectorID = "general"

// NaturalKey is the (source, sourceId) pair used as the upsert key
type NaturalKey struct {
	Source   Source
	SourceID string
}

func (k NaturalKey) String() string {
	return string(k.Source) + ":" + k.SourceID
}

// Job is the normalized job posting entity
type Job struct {
	ID       JobID  `json:"id"`
	Source   Source `json:"source"`
	SourceID string `json:"sourceId"`

	Title          string   `json:"title"`
	Company        string   `json:"company"`
	CompanyLogo    string   `json:"companyLogo,omitempty"`
	Location       string   `json:"location"`
	Country        string   `json:"country,omitempty"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements,omitempty"`
	Skills         []string `json:"skills"`
	EmploymentType string   `json:"employmentType,omitempty"`

	Salary         string   `json:"salary,omitempty"`
	SalaryMin      *float64 `json:"salaryMin,omitempty"`
	SalaryMax      *float64 `json:"salaryMax,omitempty"`
	SalaryCurrency string   `json:"salaryCurrency,omitempty"`

	Sector           SectorID `json:"sector"`
	SectorConfidence int      `json:"sectorConfidence"`

	IsRemote   bool `json:"isRemote"`
	IsHybrid   bool `json:"isHybrid"`
	IsUrgent   bool `json:"isUrgent"`
	IsFeatured bool `json:"isFeatured"`

	ApplyURL  string `json:"applyUrl,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`

	PostedAt        *time.Time `json:"postedAt,omitempty"`
	ImportedAt      time.Time  `json:"importedAt"`
	FirstImportedAt time.Time  `json:"firstImportedAt"`
}

// Key returns the natural key of the job
func (j Job) Key() NaturalKey {
	return NaturalKey{Source: j.Source, SourceID: j.SourceID}
}

// RawJob is a provider payload mapped field-by-field before normalization
type RawJob struct {
	Source         Source
	SourceID       string
	Title          string
	Company        string
	CompanyLogo    string
	Location       string
	Country        string // ISO-2 when the provider reports one
	Description    string
	Requirements   string
	Skills         []string
	EmploymentType string
	Salary         string
	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency string
	Sector         string // provider hint, validated during normalization
	Remote         *bool
	Hybrid         *bool
	Urgent         bool
	Featured       bool
	ApplyURL       string
	SourceURL      string
	PostedAt       *time.Time
}

// TaggedJob is a raw job annotated with the country it was fetched for
type TaggedJob struct {
	Raw         RawJob
	Provider    Source
	CountryCode string
	CountryName string
}

// DeriveSourceID builds a stable identifier for providers that omit one
func DeriveSourceID(raw RawJob) string {
	h := sha1.New()
	for _, part := range []string{raw.ApplyURL, raw.SourceURL, raw.Title, raw.Company, raw.Location} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return "h-" + hex.EncodeToString(h.Sum(nil))[:24]
}

// UpsertOutcome reports whether a write created or updated a job
type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota + 1
	OutcomeUpdated
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// JobFilter describes allowed store query filters
type JobFilter struct {
	Query   string
	Country string
	Sector  SectorID
	Source  Source
	Remote  *bool
	Limit   int
	Offset  int
}

// DefaultJobLimit caps unbounded store queries
const DefaultJobLimit = 50

// EffectiveLimit returns the limit with defaults applied
func (f JobFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultJobLimit
	}
	if f.Limit > 500 {
		return 500
	}
	return f.Limit
}

// JobStats aggregates stored job counts
type JobStats struct {
	Total     int            `json:"total"`
	BySource  map[string]int `json:"bySource"`
	ByCountry map[string]int `json:"byCountry"`
	BySector  map[string]int `json:"bySector"`
}

// NewJobStats returns JobStats with initialized maps
func NewJobStats() JobStats {
	return JobStats{
		BySource:  make(map[string]int),
		ByCountry: make(map[string]int),
		BySector:  make(map[string]int),
	}
}

// Add counts n jobs into every breakdown
func (s *JobStats) Add(source, country, sector string, n int) {
	s.Total += n
	s.BySource[source] += n
	if country != "" {
		s.ByCountry[country] += n
	}
	s.BySector[sector] += n
}
