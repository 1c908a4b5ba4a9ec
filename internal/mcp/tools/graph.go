package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/repository"
)

// GraphToolParams defines the arguments for the graph_tool tool
type GraphToolParams struct {
	Mode   string   `json:"mode,omitempty" jsonschema:"related (default when job_id is set) or cooccurrence"`
	JobID  string   `json:"job_id,omitempty" jsonschema:"Job id whose neighbours to list"`
	Skills []string `json:"skills,omitempty" jsonschema:"Skills to find co-occurring skills for"`
	Limit  int      `json:"limit,omitempty" jsonschema:"Maximum results, default 10"`
}

type graphToolHandler struct {
	repo repository.GraphRepository
}

// WithGraphTool registers graph_tool. It is only offered when the job store
// is the Neo4j graph.
func WithGraphTool(repo repository.GraphRepository) Option {
	if repo == nil {
		return nil
	}
	return func(reg *registry) {
		handler := graphToolHandler{repo: repo}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "graph_tool",
			Description: "Explore the job graph: related jobs by shared skills, sector and company, or skill co-occurrence",
		}, handler.handle)
	}
}

func (h *graphToolHandler) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params *GraphToolParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		return errorResult("graph_tool requires parameters"), nil, nil
	}

	mode := params.Mode
	if mode == "" {
		mode = "related"
		if params.JobID == "" {
			mode = "cooccurrence"
		}
	}

	switch mode {
	case "related":
		id, err := uuid.Parse(params.JobID)
		if err != nil {
			return errorResult("graph_tool: invalid job_id %q", params.JobID), nil, nil
		}
		related, err := h.repo.FindRelatedJobs(ctx, id, params.Limit)
		if err != nil {
			return errorResult("graph_tool: related jobs: %v", err), nil, nil
		}
		out := map[string]any{"job_id": id.String(), "related": related}
		return jsonResult(fmt.Sprintf("%d related job(s)", len(related)), out), out, nil
	case "cooccurrence":
		if len(params.Skills) == 0 {
			return errorResult("graph_tool: cooccurrence requires skills"), nil, nil
		}
		co, err := h.repo.GetSkillCooccurrences(ctx, params.Skills, params.Limit)
		if err != nil {
			return errorResult("graph_tool: skill cooccurrence: %v", err), nil, nil
		}
		out := map[string]any{"skills": params.Skills, "cooccurrences": co}
		return jsonResult(fmt.Sprintf("%d co-occurring skill(s)", len(co)), out), out, nil
	default:
		return errorResult("graph_tool: unknown mode %q", mode), nil, nil
	}
}
