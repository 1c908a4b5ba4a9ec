package tools

import (
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// errorResult reports a tool-level failure without failing the MCP call
func errorResult(format string, args ...any) *sdkmcp.CallToolResult {
	res := textResult(fmt.Sprintf(format, args...))
	res.IsError = true
	return res
}

// jsonResult returns a summary line followed by the JSON encoded payload
func jsonResult(summary string, payload any) *sdkmcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult("encode result: %v", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: summary},
			&sdkmcp.TextContent{Text: string(data)},
		},
	}
}
