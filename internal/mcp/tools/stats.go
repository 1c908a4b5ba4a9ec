package tools

import (
	"context"

	"github.com/dustin/go-humanize"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// JobStatsParams is empty; job_stats takes no arguments
type JobStatsParams struct{}

// WithJobStats registers the job_stats tool
func WithJobStats(svc JobService) Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_stats",
			Description: "Count stored jobs by source, country and sector",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ *JobStatsParams) (*sdkmcp.CallToolResult, any, error) {
			stats, err := svc.Stats(ctx)
			if err != nil {
				return errorResult("job_stats failed: %v", err), nil, nil
			}
			return jsonResult(humanize.Comma(int64(stats.Total))+" jobs stored", stats), stats, nil
		})
	}
}
