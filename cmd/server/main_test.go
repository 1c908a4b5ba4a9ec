package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	for _, k := range []string{"STORE_DRIVER", "ADZUNA_APP_ID", "ADZUNA_APP_KEY", "JSEARCH_API_KEY", "RAPIDAPI_KEY", "SERPAPI_API_KEY", "SERPAPI_KEY", "REED_API_KEY", "REDIS_URL", "GOOGLE_SHEETS_CREDENTIALS_PATH"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := execute(t, "--store", "memory", "classify", "--location", "Pune, Maharashtra", "--title", "Staff Nurse")
	assert.Contains(t, out, "country: IN (India)")
	assert.Contains(t, out, "sector: healthcare")
}

func TestImportCommandWithoutCredentials(t *testing.T) {
	out := execute(t, "--store", "memory", "import", "--countries", "GB")

	var resp domain.ImportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Zero(t, resp.Summary.TotalJobs)
	gb := resp.Summary.Countries["GB"]
	assert.Contains(t, gb.Errors, "adzuna")
	assert.Contains(t, gb.Errors, "reed")
}
