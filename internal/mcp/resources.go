package mcp

import (
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
	"github.com/honeycarbs/job-aggregator/internal/repository"
)

// Resources are the services shared by the MCP tools, the REST API and the
// scheduler
type Resources struct {
	JobService job.Service
	Graph      repository.GraphRepository
	Sheets     tools.SheetsClient
}

func newResources(svc job.Service, store *Store, sheets tools.SheetsClient) *Resources {
	return &Resources{
		JobService: svc,
		Graph:      store.Graph,
		Sheets:     sheets,
	}
}
