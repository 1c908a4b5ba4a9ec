package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// SearchJobsParams defines the arguments for the search_jobs tool
type SearchJobsParams struct {
	Query   string `json:"query,omitempty" jsonschema:"Free text matched against title, company and description"`
	Country string `json:"country,omitempty" jsonschema:"ISO-2 country code"`
	Sector  string `json:"sector,omitempty" jsonschema:"Sector id such as technology or healthcare"`
	Source  string `json:"source,omitempty" jsonschema:"Provider tag: adzuna, jsearch, google, reed or manual"`
	Remote  *bool  `json:"remote,omitempty" jsonschema:"Restrict to remote postings"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum results, default 50"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Results to skip"`
}

// JobSummary is the compact job view returned by search_jobs
type JobSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Country  string   `json:"country,omitempty"`
	Sector   string   `json:"sector"`
	Source   string   `json:"source"`
	Salary   string   `json:"salary,omitempty"`
	Remote   bool     `json:"remote"`
	ApplyURL string   `json:"apply_url,omitempty"`
	Posted   string   `json:"posted,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// SearchJobsResult is the structured output of search_jobs
type SearchJobsResult struct {
	Count int          `json:"count"`
	Jobs  []JobSummary `json:"jobs"`
}

// WithJobSearch registers the search_jobs tool
func WithJobSearch(svc JobService) Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_jobs",
			Description: "Search imported jobs by country, sector, source, remote flag and free text",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params *SearchJobsParams) (*sdkmcp.CallToolResult, any, error) {
			return searchJobs(ctx, svc, params, time.Now())
		})
	}
}

func searchJobs(ctx context.Context, svc JobService, params *SearchJobsParams, now time.Time) (*sdkmcp.CallToolResult, any, error) {
	filter := domain.JobFilter{}
	if params != nil {
		filter = domain.JobFilter{
			Query:   params.Query,
			Country: params.Country,
			Sector:  domain.SectorID(params.Sector),
			Source:  domain.Source(params.Source),
			Remote:  params.Remote,
			Limit:   params.Limit,
			Offset:  params.Offset,
		}
	}

	jobs, err := svc.Search(ctx, filter)
	if err != nil {
		return errorResult("search_jobs failed: %v", err), nil, nil
	}

	out := SearchJobsResult{Count: len(jobs), Jobs: make([]JobSummary, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, summarize(j, now))
	}
	return jsonResult(fmt.Sprintf("found %d job(s)", out.Count), out), out, nil
}

func summarize(j domain.Job, now time.Time) JobSummary {
	s := JobSummary{
		ID:       j.ID.String(),
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		Country:  j.Country,
		Sector:   string(j.Sector),
		Source:   string(j.Source),
		Salary:   j.Salary,
		Remote:   j.IsRemote,
		ApplyURL: j.ApplyURL,
		Skills:   j.Skills,
	}
	if j.PostedAt != nil {
		s.Posted = humanize.RelTime(*j.PostedAt, now, "ago", "from now")
	}
	return s
}
