package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// JobService is the subset of job.Service the tools call
type JobService interface {
	Import(ctx context.Context, req domain.ImportRequest) (domain.ImportSummary, error)
	Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
}

// Register applies the provided tool options
func Register(server *sdkmcp.Server, opts ...Option) {
	reg := &registry{server: server}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
}
