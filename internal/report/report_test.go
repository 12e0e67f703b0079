package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"envirocheck/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reportDate = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	testResults = []schema.AssessmentResult{
		{ParameterID: "ph", ParameterName: "pH", Unit: "-", Limit: 8.5, Type: schema.LimitMax, MeanValue: 5.49, MaxValue: 7.46, Status: schema.StatusPass, PercentOfLimit: 88},
		{ParameterID: "do", ParameterName: "DO, \"dissolved\"", Unit: "mg/L", Limit: 4, Type: schema.LimitMin, MeanValue: 0, MaxValue: 7, Status: schema.StatusFail, PercentOfLimit: math.Inf(1)},
		{ParameterID: "tss", ParameterName: "TSS", Unit: "mg/L", Limit: 50, Type: schema.LimitMax, Status: schema.StatusNotAvailable},
		{ParameterID: "cod", ParameterName: "COD", Unit: "mg/L", Limit: 30, Type: schema.LimitMax, MeanValue: 25.456, MaxValue: 27, Status: schema.StatusWarning, PercentOfLimit: 90},
	}
)

func TestBuild(t *testing.T) {
	std := schema.DefaultStandards()[0]
	r := Build("River survey", std, reportDate, testResults)

	assert.Equal(t, "2024-01-15", r.Date)
	assert.Equal(t, std.Name, r.Regulation.Name)
	assert.Equal(t, schema.ComplianceStats{Pass: 1, Warning: 1, Fail: 1, Total: 4}, r.Summary)
	assert.Equal(t, 25.0, r.ComplianceRate())
	assert.Equal(t, "EnviroReport_20240115.csv", r.Filename("csv"))
	assert.Equal(t, "EnviroReport_20240115.json", r.Filename(".json"))

	empty := Build("Empty", std, reportDate, nil)
	assert.NotNil(t, empty.Results)
	assert.Zero(t, empty.ComplianceRate())
}

func TestWriteCSV(t *testing.T) {
	r := Build("River survey", schema.Standard{Name: "QCVN 08"}, reportDate, testResults)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))

	want := strings.Join([]string{
		"# Environmental Compliance Report",
		"# Regulation: QCVN 08",
		"# Date: 2024-01-15",
		"# Summary: 1 Pass, 1 Warning, 1 Fail",
		"",
		"Parameter,Unit,Mean Value,Max Value,Limit,Type,% of Limit,Status",
		"pH,-,5.49,7.46,8.5,max,88.0%,Pass",
		`"DO, ""dissolved""",mg/L,0.00,7.00,4,min,Infinity%,Fail`,
		"TSS,mg/L,0.00,0.00,50,max,0.0%,N/A",
		"COD,mg/L,25.46,27.00,30,max,90.0%,Warning",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	r := Build("River survey", schema.DefaultStandards()[1], reportDate, testResults)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r, time.Date(2024, 1, 15, 10, 0, 0, 123e6, time.FixedZone("ICT", 7*3600))))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.0.0", doc["version"])
	assert.Equal(t, "2024-01-15T03:00:00.123Z", doc["exportedAt"])
	assert.Equal(t, "River survey", doc["title"])
	assert.Equal(t, "2024-01-15", doc["date"])

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, 4.0, summary["total"])

	results := doc["results"].([]any)
	require.Len(t, results, 4)
	assert.Nil(t, results[1].(map[string]any)["percentOfLimit"])
	assert.Contains(t, buf.String(), "\n  \"title\": \"River survey\"")
}
