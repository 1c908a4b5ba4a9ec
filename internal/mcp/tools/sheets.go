package tools

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// SheetRow is one exported job row
type SheetRow struct {
	Title      string `json:"title,omitempty" jsonschema:"Job title text"`
	Company    string `json:"company,omitempty" jsonschema:"Company name"`
	Location   string `json:"location,omitempty" jsonschema:"Location text"`
	Country    string `json:"country,omitempty" jsonschema:"ISO-2 country code"`
	Sector     string `json:"sector,omitempty" jsonschema:"Sector id"`
	Source     string `json:"source,omitempty" jsonschema:"Provider tag"`
	Salary     string `json:"salary,omitempty" jsonschema:"Salary display text"`
	URL        string `json:"url,omitempty" jsonschema:"Application URL"`
	PostedAt   string `json:"posted_at,omitempty" jsonschema:"RFC3339 posting time"`
	ImportedAt string `json:"imported_at,omitempty" jsonschema:"RFC3339 time of the last import"`
}

// SheetTarget identifies the destination spreadsheet
type SheetTarget struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, default Sheet1"`
	Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	Filter   *SearchJobsParams `json:"filter,omitempty" jsonschema:"Stored jobs to export, same fields as search_jobs"`
	Rows     []SheetRow        `json:"rows,omitempty" jsonschema:"Explicit rows to write instead of stored jobs"`
	Upsert   bool              `json:"upsert,omitempty" jsonschema:"Overwrite from row 2 (true) or append (false)"`
	ClearTab bool              `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab before writing"`
	Sheet    SheetTarget       `json:"sheet" jsonschema:"Destination sheet information"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab,omitempty"`
	WrittenRows   int       `json:"written_rows"`
	Mode          string    `json:"mode"`
	CompletedAt   time.Time `json:"completed_at"`
	Message       string    `json:"message,omitempty"`
}

// SheetsClient writes rows to a spreadsheet
type SheetsClient interface {
	Export(ctx context.Context, params SheetsExportParams) (SheetsExportResult, error)
}

// WithSheetsExport registers the sheets_export tool. A nil client makes the
// tool report that Sheets is not configured.
func WithSheetsExport(svc JobService, client SheetsClient) Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export stored jobs, or explicit rows, to a Google Sheets tab",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params *SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
			return sheetsExport(ctx, svc, client, params)
		})
	}
}

func sheetsExport(ctx context.Context, svc JobService, client SheetsClient, params *SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if client == nil {
		return errorResult("sheets_export unavailable: GOOGLE_SHEETS_CREDENTIALS_PATH not set"), nil, nil
	}
	if params == nil || params.Sheet.SpreadsheetID == "" {
		return errorResult("sheets_export requires sheet.spreadsheet_id"), nil, nil
	}

	mode := "rows"
	if len(params.Rows) == 0 {
		mode = "jobs"
		filter := SearchJobsParams{}
		if params.Filter != nil {
			filter = *params.Filter
		}
		jobs, err := svc.Search(ctx, domain.JobFilter{
			Query:   filter.Query,
			Country: filter.Country,
			Sector:  domain.SectorID(filter.Sector),
			Source:  domain.Source(filter.Source),
			Remote:  filter.Remote,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
		})
		if err != nil {
			return errorResult("sheets_export: load jobs: %v", err), nil, nil
		}
		params.Rows = RowsFromJobs(jobs)
	}

	result, err := client.Export(ctx, *params)
	result.Mode = mode
	if err != nil {
		return errorResult("sheets_export failed: %v", err), result, nil
	}
	return textResult(fmt.Sprintf("%s to %s/%s", result.Message, result.SpreadsheetID, result.Tab)), result, nil
}

// RowsFromJobs maps stored jobs onto sheet rows
func RowsFromJobs(jobs []domain.Job) []SheetRow {
	rows := make([]SheetRow, 0, len(jobs))
	for _, j := range jobs {
		row := SheetRow{
			Title:      j.Title,
			Company:    j.Company,
			Location:   j.Location,
			Country:    j.Country,
			Sector:     string(j.Sector),
			Source:     string(j.Source),
			Salary:     j.Salary,
			URL:        j.ApplyURL,
			ImportedAt: j.ImportedAt.UTC().Format(time.RFC3339),
		}
		if row.URL == "" {
			row.URL = j.SourceURL
		}
		if j.PostedAt != nil {
			row.PostedAt = j.PostedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}
