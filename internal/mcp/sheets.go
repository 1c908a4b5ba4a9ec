package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
	sheetsclient "github.com/honeycarbs/job-aggregator/pkg/sheets"
)

var sheetHeader = []interface{}{
	"Title", "Company", "Location", "Country", "Sector", "Source", "Salary", "URL", "Posted", "Imported",
}

type valuesWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
}

type sheetsClientAdapter struct {
	client valuesWriter
	clock  func() time.Time
}

// newSheetsClient returns nil when no credentials are configured so the
// sheets_export tool can report it
func newSheetsClient(ctx context.Context, cfg config.Config, logger *logging.Logger) tools.SheetsClient {
	if cfg.Sheets.CredentialsPath == "" {
		return nil
	}
	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		logger.Warn("google sheets export disabled", "err", err)
		return nil
	}
	return &sheetsClientAdapter{client: client, clock: time.Now}
}

func (a *sheetsClientAdapter) Export(ctx context.Context, params tools.SheetsExportParams) (tools.SheetsExportResult, error) {
	result := tools.SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
		CompletedAt:   a.clock().UTC(),
	}

	if len(params.Rows) == 0 {
		result.Message = "no rows to export"
		return result, nil
	}

	range_ := buildRange(params)
	values := convertRowsToValues(params.Rows)

	if params.ClearTab {
		clearRange := buildClearRange(params.Sheet.Tab)
		if err := a.client.ClearValues(ctx, params.Sheet.SpreadsheetID, clearRange); err != nil {
			return result, fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	if params.Upsert {
		headerRange := fmt.Sprintf("%s!A1", tabName(params.Sheet.Tab))
		if err := a.client.UpdateValues(ctx, params.Sheet.SpreadsheetID, headerRange, [][]interface{}{sheetHeader}); err != nil {
			return result, fmt.Errorf("sheets: failed to write header: %w", err)
		}
		if err := a.client.UpdateValues(ctx, params.Sheet.SpreadsheetID, range_, values); err != nil {
			return result, fmt.Errorf("sheets: failed to upsert rows: %w", err)
		}
	} else {
		if err := a.client.AppendValues(ctx, params.Sheet.SpreadsheetID, range_, values); err != nil {
			return result, fmt.Errorf("sheets: failed to append rows: %w", err)
		}
	}

	result.WrittenRows = len(params.Rows)
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)

	return result, nil
}

func tabName(tab string) string {
	if tab == "" {
		return "Sheet1"
	}
	return tab
}

func buildRange(params tools.SheetsExportParams) string {
	if params.Sheet.Range != "" {
		return params.Sheet.Range
	}
	if params.Upsert {
		return fmt.Sprintf("%s!A2", tabName(params.Sheet.Tab))
	}
	return fmt.Sprintf("%s!A1", tabName(params.Sheet.Tab))
}

func buildClearRange(tab string) string {
	return fmt.Sprintf("%s!A2:Z", tabName(tab))
}

func convertRowsToValues(rows []tools.SheetRow) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.Title,
			row.Company,
			row.Location,
			row.Country,
			row.Sector,
			row.Source,
			row.Salary,
			row.URL,
			row.PostedAt,
			row.ImportedAt,
		}
	}
	return values
}
