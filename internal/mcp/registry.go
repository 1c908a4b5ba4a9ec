package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

// RegisterAll installs every tool the resources can serve
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) {
	opts := []tools.Option{
		tools.WithImportJobs(res.JobService),
		tools.WithJobSearch(res.JobService),
		tools.WithJobStats(res.JobService),
		tools.WithClassifiers(),
		tools.WithSheetsExport(res.JobService, res.Sheets),
	}
	if res.Graph != nil {
		opts = append(opts, tools.WithGraphTool(res.Graph))
	} else {
		r.logger.Info("graph_tool disabled", "reason", "store driver is not neo4j")
	}
	tools.Register(server, opts...)
}
