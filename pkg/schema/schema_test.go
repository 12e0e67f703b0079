package schema

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIDGeneration(t *testing.T) {
	stdID, err := NewStandardID(CategoryWater)
	if err != nil {
		t.Fatalf("Failed to generate standard ID: %v", err)
	}
	if !strings.HasPrefix(stdID, "STD-WATER-") {
		t.Errorf("Standard ID should start with STD-WATER-, got %s", stdID)
	}
	if len(strings.Split(stdID, "-")[2]) != 10 {
		t.Errorf("Nanoid portion should be 10 characters")
	}

	evtID, err := NewEventID()
	if err != nil {
		t.Fatalf("Failed to generate event ID: %v", err)
	}
	if !strings.HasPrefix(evtID, "EVT-") {
		t.Errorf("Event ID should start with EVT-, got %s", evtID)
	}
}

func TestIDCollisionResistance(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id, err := NewStandardID(CategoryAir)
		if err != nil {
			t.Fatalf("Failed to generate ID: %v", err)
		}
		if ids[id] {
			t.Fatalf("Collision detected after %d iterations: %s", i, id)
		}
		ids[id] = true
	}
}

func TestNewRandomSeed(t *testing.T) {
	seed, err := NewRandomSeed()
	if err != nil {
		t.Fatalf("Failed to generate seed: %v", err)
	}
	if len(seed) != 7 {
		t.Errorf("Seed should be 7 characters, got %q", seed)
	}
	for _, r := range seed {
		if !strings.ContainsRune(base36Alphabet, r) {
			t.Errorf("Seed %q contains non base-36 character %q", seed, r)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"12.5", 12.5, true},
		{"  7", 7, true},
		{"3.25x", 3.25, true},
		{"-0.5", -0.5, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"2e", 2, true},
		{"1.5e-2mg", 0.015, true},
		{"0x10", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDecimal(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDecimal(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if v, ok := ParseDecimal("-Infinity"); !ok || !math.IsInf(v, -1) {
		t.Errorf("ParseDecimal(-Infinity) = %v, %v", v, ok)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{2.5, 3},
		{-2.5, -2},
		{-2.6, -3},
		{0.49999999999999994, 0},
		{1049.9999999999998, 1050},
	}

	for _, tt := range tests {
		if got := RoundHalfUp(tt.input); got != tt.want {
			t.Errorf("RoundHalfUp(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if got := Round2(10.456); got != 10.46 {
		t.Errorf("Round2(10.456) = %v, want 10.46", got)
	}
}

func TestCellReading(t *testing.T) {
	if _, ok := EmptyCell().Float(); ok {
		t.Error("empty cell should not read as a number")
	}
	if UnparsedCell("").Kind() != CellEmpty {
		t.Error("empty text should produce an empty cell")
	}
	if v, ok := UnparsedCell("4.2 mg").Float(); !ok || v != 4.2 {
		t.Errorf("unparsed cell read = %v, %v", v, ok)
	}
	if _, ok := UnparsedCell("n.d.").Float(); ok {
		t.Error("non-numeric text should not read as a number")
	}
	if v, ok := NumericCell(-3).Float(); !ok || v != -3 {
		t.Errorf("numeric cell read = %v, %v", v, ok)
	}
}

func TestSampleRowJSONAndYAML(t *testing.T) {
	row := NewSampleRow(Parameter{ID: "cod", Name: "COD", Unit: "mg/L", Limit: 30, Type: LimitMax})
	row.Set("Sample 1", NumericCell(12.5))
	row.Set("Sample 2", UnparsedCell("13.1"))
	row.Set("Sample 3", EmptyCell())

	jsonData, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Failed to marshal row to JSON: %v", err)
	}
	jsonStr := string(jsonData)
	for _, want := range []string{`"Sample 1":12.5`, `"Sample 2":"13.1"`, `"Sample 3":null`} {
		if !strings.Contains(jsonStr, want) {
			t.Errorf("JSON %s should contain %s", jsonStr, want)
		}
	}

	var fromJSON SampleRow
	if err := json.Unmarshal(jsonData, &fromJSON); err != nil {
		t.Fatalf("Failed to unmarshal row from JSON: %v", err)
	}
	if fromJSON.Cell("Sample 2").Kind() != CellUnparsed {
		t.Error("text cell should stay unparsed after JSON round trip")
	}

	yamlData, err := yaml.Marshal(row)
	if err != nil {
		t.Fatalf("Failed to marshal row to YAML: %v", err)
	}

	var fromYAML SampleRow
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		t.Fatalf("Failed to unmarshal row from YAML: %v", err)
	}
	if fromYAML.Cell("Sample 1").Kind() != CellNumeric {
		t.Error("numeric cell should stay numeric after YAML round trip")
	}
	if fromYAML.Cell("Sample 2").Kind() != CellUnparsed {
		t.Error("quoted text should stay unparsed after YAML round trip")
	}
	if fromYAML.Cell("Sample 3").Kind() != CellEmpty {
		t.Error("null should decode to an empty cell")
	}
}

func TestAssessmentResultJSONNonFinite(t *testing.T) {
	result := AssessmentResult{
		ParameterID:    "do",
		Type:           LimitMin,
		Status:         StatusFail,
		PercentOfLimit: math.Inf(1),
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}
	if !strings.Contains(string(data), `"percentOfLimit":null`) {
		t.Errorf("non-finite percent should marshal as null, got %s", data)
	}
	if !strings.Contains(string(data), `"status":"Fail"`) {
		t.Errorf("status missing from %s", data)
	}
}

func TestValidateStandard(t *testing.T) {
	for _, std := range DefaultStandards() {
		std := std
		if err := ValidateStandard(&std); err != nil {
			t.Errorf("default standard %s should be valid: %v", std.ID, err)
		}
	}

	bad := Standard{
		ID:       "x",
		Name:     "Broken",
		Category: CategorySoil,
		Parameters: []Parameter{
			{ID: "pb", Name: "Lead", Limit: 1, Type: LimitMax},
			{ID: "pb", Name: "Lead again", Limit: 2, Type: LimitMax},
		},
	}
	if err := ValidateStandard(&bad); err == nil {
		t.Error("duplicate parameter ids should be rejected")
	}

	bad.Parameters = []Parameter{{ID: "pb", Name: "Lead", Limit: 1, Type: "range"}}
	if err := ValidateStandard(&bad); err == nil {
		t.Error("unknown limit type should be rejected")
	}

	bad.Parameters = nil
	bad.Category = "Noise"
	if err := ValidateStandard(&bad); err == nil {
		t.Error("unknown category should be rejected")
	}

	if err := ValidateSampleCount(21); err == nil {
		t.Error("sample count above 20 should be rejected")
	}
}
