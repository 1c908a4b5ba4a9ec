package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
)

// DetectCountryParams defines the arguments for the detect_country tool
type DetectCountryParams struct {
	Location string `json:"location" jsonschema:"Free-form location text, e.g. Bengaluru, Karnataka"`
}

// DetectCountryResult is the structured output of detect_country
type DetectCountryResult struct {
	Detected bool   `json:"detected"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
}

// ClassifySectorParams defines the arguments for the classify_sector tool
type ClassifySectorParams struct {
	Title       string `json:"title" jsonschema:"Job title"`
	Description string `json:"description,omitempty" jsonschema:"Job description text"`
}

// ClassifySectorResult is the structured output of classify_sector
type ClassifySectorResult struct {
	Sector     string   `json:"sector"`
	Name       string   `json:"name"`
	Confidence int      `json:"confidence"`
	Skills     []string `json:"skills"`
}

// WithClassifiers registers detect_country and classify_sector
func WithClassifiers() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "detect_country",
			Description: "Detect the ISO-2 country of a location string using the supported country keyword tables",
		}, detectCountry)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "classify_sector",
			Description: "Classify a job into a sector by keyword matching and list the skills found in its text",
		}, classifySector)
	}
}

func detectCountry(_ context.Context, _ *sdkmcp.CallToolRequest, params *DetectCountryParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || params.Location == "" {
		return errorResult("detect_country requires a location"), nil, nil
	}

	out := DetectCountryResult{}
	code, ok := classify.DetectCountry(params.Location)
	if !ok {
		return jsonResult(fmt.Sprintf("no supported country found in %q", params.Location), out), out, nil
	}
	c, _ := classify.Country(code)
	out = DetectCountryResult{Detected: true, Code: c.Code, Name: c.Name}
	return jsonResult(fmt.Sprintf("%q is in %s (%s)", params.Location, c.Name, c.Code), out), out, nil
}

func classifySector(_ context.Context, _ *sdkmcp.CallToolRequest, params *ClassifySectorParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil || (params.Title == "" && params.Description == "") {
		return errorResult("classify_sector requires a title or description"), nil, nil
	}

	id, confidence := classify.ClassifySector(params.Title, params.Description)
	out := ClassifySectorResult{
		Sector:     string(id),
		Confidence: confidence,
		Skills:     classify.ExtractSkills(params.Title + "\n" + params.Description),
	}
	if def, ok := classify.Sector(id); ok {
		out.Name = def.Name
	}
	return jsonResult(fmt.Sprintf("sector %s (confidence %d)", out.Sector, out.Confidence), out), out, nil
}
