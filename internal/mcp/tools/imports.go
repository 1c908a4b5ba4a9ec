package tools

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// ImportJobsParams defines the arguments for the import_jobs tool
type ImportJobsParams struct {
	Countries         []string `json:"countries,omitempty" jsonschema:"ISO-2 country codes; empty imports the highest priority countries"`
	Queries           []string `json:"queries,omitempty" jsonschema:"Search keywords; empty fetches general listings"`
	Page              int      `json:"page,omitempty" jsonschema:"Provider results page, default 1"`
	MaxJobsPerCountry int      `json:"max_jobs_per_country,omitempty" jsonschema:"Upper bound of jobs kept per country"`
}

// WithImportJobs registers the import_jobs tool
func WithImportJobs(svc JobService) Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "import_jobs",
			Description: "Fetch jobs from every configured provider, normalize them and upsert them into the job store",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ImportJobsParams) (*sdkmcp.CallToolResult, any, error) {
			return importJobs(ctx, svc, params)
		})
	}
}

func importJobs(ctx context.Context, svc JobService, params *ImportJobsParams) (*sdkmcp.CallToolResult, any, error) {
	req := domain.ImportRequest{}
	if params != nil {
		req = domain.ImportRequest{
			Countries:         params.Countries,
			Queries:           params.Queries,
			Page:              params.Page,
			MaxJobsPerCountry: params.MaxJobsPerCountry,
		}
	}

	summary, err := svc.Import(ctx, req)
	resp := domain.ImportResponse{Success: err == nil, Summary: summary}
	if err != nil {
		resp.Error = err.Error()
		res := jsonResult(fmt.Sprintf("import failed: %v", err), resp)
		res.IsError = true
		return res, resp, nil
	}

	msg := fmt.Sprintf("imported %s of %s jobs across %d countries (%s created, %s updated)",
		humanize.Comma(int64(summary.TotalPersisted)),
		humanize.Comma(int64(summary.TotalJobs)),
		summary.CountriesProcessed,
		humanize.Comma(int64(summary.Created)),
		humanize.Comma(int64(summary.Updated)),
	)
	return jsonResult(msg, resp), resp, nil
}
