package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	country := flag.String("country", "GB", "Country to import and search")
	runImport := flag.Bool("import", false, "Call import_jobs before searching (spends provider quota)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "job-aggregator-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testClassifiers(ctx, session)
	if *runImport {
		call(ctx, session, "import_jobs", map[string]any{
			"countries":            []string{*country},
			"queries":              []string{"software developer"},
			"max_jobs_per_country": 20,
		})
	}
	call(ctx, session, "search_jobs", map[string]any{"country": *country, "limit": 5})
	call(ctx, session, "job_stats", map[string]any{})
	call(ctx, session, "graph_tool", map[string]any{"skills": []string{"Python"}, "limit": 5})

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testClassifiers(ctx context.Context, session *mcp.ClientSession) {
	call(ctx, session, "detect_country", map[string]any{"location": "Hyderabad, Telangana"})
	call(ctx, session, "classify_sector", map[string]any{
		"title":       "Senior Accountant",
		"description": "Month-end close, audit support and tax filings",
	})
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	fmt.Printf("\nTEST: %s\n", name)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return
	}
	printResult(result)
	if result.IsError {
		fmt.Printf("%s returned a tool error\n", name)
		return
	}
	fmt.Printf("%s passed\n", name)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
