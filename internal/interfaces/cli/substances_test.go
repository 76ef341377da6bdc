package cli

import (
	"encoding/json"
	"strings"
	"testing"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

func TestSubstancesCmd_ListAll(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "substances")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	for _, want := range []string{"Eau", "Acétone", "Acide sulfurique", "Hydroxyde de sodium"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Total: 4") {
		t.Errorf("expected total line, got:\n%s", out)
	}
}

func TestSubstancesCmd_Query(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "substances", "-q", "acide")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	if !strings.Contains(out, "Acide sulfurique") {
		t.Errorf("expected matching substance, got:\n%s", out)
	}
	if !strings.Contains(out, "Total: 1") {
		t.Errorf("expected a single match, got:\n%s", out)
	}
}

func TestSubstancesCmd_QueryByCAS(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "substances", "-q", "67-64-1")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, "Acétone") {
		t.Errorf("expected CAS match, got:\n%s", out)
	}
	if !strings.Contains(out, "Total: 1") {
		t.Errorf("expected a single match, got:\n%s", out)
	}
}

func TestSubstancesCmd_JSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "-o", "json", "substances")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	var items []*analysistypes.SubstanceSummary
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if len(items) != 4 {
		t.Errorf("expected 4 substances, got %d", len(items))
	}
}

func TestSubstancesCmd_RejectsArgs(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, _, err := runRoot(t, "--config", cfgPath, "substances", "extra")
	if err == nil {
		t.Fatal("expected error for positional arguments")
	}
}

func TestFilterSummaries(t *testing.T) {
	items := []*analysistypes.SubstanceSummary{
		{CAS: "67-64-1", Name: "Acétone"},
		{CAS: "7732-18-5", Name: "Eau"},
	}

	if got := filterSummaries(items, ""); len(got) != 2 {
		t.Errorf("empty query must keep everything, got %d", len(got))
	}
	if got := filterSummaries(items, "EAU"); len(got) != 1 || got[0].Name != "Eau" {
		t.Errorf("query should be case-insensitive, got %v", got)
	}
	if got := filterSummaries(items, "7732"); len(got) != 1 || got[0].Name != "Eau" {
		t.Errorf("query should match CAS numbers, got %v", got)
	}
	if got := filterSummaries(items, "zzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestFormatSubstanceList_FlashPointDash(t *testing.T) {
	fp := -20.0
	items := []*analysistypes.SubstanceSummary{
		{CAS: "67-64-1", Name: "Acétone", FlashPointC: &fp, ToxicityLevel: "HARMFUL", Category: "FLAMMABLE"},
		{CAS: "7732-18-5", Name: "Eau", ToxicityLevel: "NON_TOXIC", Category: "WATER"},
	}

	out, err := formatSubstanceList(items, "table")
	if err != nil {
		t.Fatalf("formatting failed: %v", err)
	}
	if !strings.Contains(out, "-20") {
		t.Errorf("expected flash point value, got:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	foundDash := false
	for _, line := range lines {
		if strings.Contains(line, "Eau") && strings.Contains(line, "-") {
			foundDash = true
		}
	}
	if !foundDash {
		t.Errorf("expected dash for missing flash point, got:\n%s", out)
	}
}

func TestFormatSubstanceList_UnknownFormat(t *testing.T) {
	_, err := formatSubstanceList(nil, "yaml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
