package domain

import "time"

// ImportRequest is the trigger payload for one aggregation run
type ImportRequest struct {
	Countries         []string `json:"countries"`
	Queries           []string `json:"queries"`
	Page              int      `json:"page"`
	MaxJobsPerCountry int      `json:"maxJobsPerCountry"`
}

// CountrySummary reports fetch results for one country
type CountrySummary struct {
	Name      string            `json:"name"`
	TotalJobs int               `json:"totalJobs"`
	Providers map[string]int    `json:"providers"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// PersistFailure describes a job that could not be written
type PersistFailure struct {
	Source   Source `json:"source"`
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`
	Error    string `json:"error"`
}

// ImportSummary is returned to the caller of every run
type ImportSummary struct {
	TotalJobs          int                       `json:"totalJobs"`
	TotalPersisted     int                       `json:"totalPersisted"`
	Created            int                       `json:"created"`
	Updated            int                       `json:"updated"`
	Duplicates         int                       `json:"duplicates"`
	Invalid            int                       `json:"invalid"`
	CountriesProcessed int                       `json:"countriesProcessed"`
	Countries          map[string]CountrySummary `json:"countries"`
	UnknownCountries   []string                  `json:"unknownCountries,omitempty"`
	Failures           []PersistFailure          `json:"failures,omitempty"`
	Cancelled          bool                      `json:"cancelled,omitempty"`
	StartedAt          time.Time                 `json:"startedAt"`
	FinishedAt         time.Time                 `json:"finishedAt"`
}

// ImportResponse is the JSON envelope returned by trigger surfaces
type ImportResponse struct {
	Success bool          `json:"success"`
	Summary ImportSummary `json:"summary"`
	Error   string        `json:"error,omitempty"`
}
