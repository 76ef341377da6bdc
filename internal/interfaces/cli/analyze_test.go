package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

const testSubstancesCSV = `cas;nom;point_eclair;toxicite;categorie;mentions_danger
7732-18-5;Eau;;non_toxique;eau;
67-64-1;Acétone;-20;nocif;inflammable;Liquide et vapeurs très inflammables
7664-93-9;Acide sulfurique;;toxique;acide;Corrosif, provoque des brûlures graves
1310-73-2;Hydroxyde de sodium;;toxique;base;Corrosif, provoque des brûlures graves
`

const testIncompatibilitiesCSV = `substance_a;substance_b;niveau_risque;type_reaction;justification;produit_reaction;formule_produit;equation_reaction
Acide sulfurique;Hydroxyde de sodium;HIGH;exothermique;Neutralisation fortement exothermique avec risque de projections;;;
Acide sulfurique;Eau;MEDIUM;exothermique;Dilution fortement exothermique, toujours verser l'acide dans l'eau;;;
`

// writeTestConfig materializes a CSV catalog and a config file pointing at it,
// returning the config path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	subPath := filepath.Join(dir, "substances.csv")
	if err := os.WriteFile(subPath, []byte(testSubstancesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	incPath := filepath.Join(dir, "incompatibilites.csv")
	if err := os.WriteFile(incPath, []byte(testIncompatibilitiesCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := "catalog:\n" +
		"  source: csv\n" +
		"  substances_path: " + subPath + "\n" +
		"  incompatibilities_path: " + incPath + "\n"
	cfgPath := filepath.Join(dir, "chemrisk.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// runRoot executes the root command with the given arguments and returns
// captured stdout and stderr.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeCmd_LocalText(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "analyze", "Acétone")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	if !strings.Contains(out, "Global score: 49.5 (MOYEN)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "67-64-1") {
		t.Errorf("expected resolved CAS number in output:\n%s", out)
	}
}

func TestAnalyzeCmd_LocalJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "-o", "json", "analyze", "Acétone")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	var result analysistypes.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if result.GlobalScore != 49.5 {
		t.Errorf("expected global score 49.5, got %v", result.GlobalScore)
	}
	if string(result.RiskLevel) != "MOYEN" {
		t.Errorf("expected MOYEN, got %s", result.RiskLevel)
	}
}

func TestAnalyzeCmd_IncompatiblePair(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "analyze", "Acide sulfurique", "Hydroxyde de sodium")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	if !strings.Contains(out, "Global score: 44.75 (MOYEN)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Incompatibilities:") {
		t.Errorf("expected incompatibility section in output:\n%s", out)
	}
	if !strings.Contains(out, "Neutralisation fortement exothermique") {
		t.Errorf("expected catalog explanation in output:\n%s", out)
	}
}

func TestAnalyzeCmd_TemperatureWarning(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "analyze", "Acétone", "--temperature", "35")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	if !strings.Contains(out, "Température élevée") {
		t.Errorf("expected temperature warning in output:\n%s", out)
	}
}

func TestAnalyzeCmd_UnknownSubstanceWarns(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, _, err := runRoot(t, "--config", cfgPath, "analyze", "Licorne liquide")
	if err != nil {
		t.Fatalf("unknown substances must degrade to warnings: %v", err)
	}
	if !strings.Contains(out, "Warnings:") {
		t.Errorf("expected warnings section in output:\n%s", out)
	}
}

func TestAnalyzeCmd_NoArgs(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, _, err := runRoot(t, "--config", cfgPath, "analyze")
	if err == nil {
		t.Fatal("expected error when no substances are given")
	}
}

func TestAnalyzeCmd_InvalidQuantity(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, _, err := runRoot(t, "--config", cfgPath, "analyze", "Acétone", "-q", "Acétone")
	if err == nil {
		t.Fatal("expected error for malformed quantity")
	}
	if !strings.Contains(err.Error(), "invalid quantity") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAnalyzeCmd_UnknownFormat(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, _, err := runRoot(t, "--config", cfgPath, "-o", "xml", "analyze", "Acétone")
	if err == nil {
		t.Fatal("expected error for unknown output format")
	}
	if !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAnalyzeCmd_FileOutput(t *testing.T) {
	cfgPath := writeTestConfig(t)
	outPath := filepath.Join(t.TempDir(), "result.json")

	_, _, err := runRoot(t, "--config", cfgPath, "-o", "json", "analyze", "Acétone", "--file", outPath)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if !strings.Contains(string(content), "score_global") {
		t.Errorf("output file should contain the result, got:\n%s", content)
	}
}

func TestParseQuantities(t *testing.T) {
	got, err := parseQuantities([]string{"Acétone=250", "Eau = 1.5"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got["Acétone"] != 250 {
		t.Errorf("expected 250, got %v", got["Acétone"])
	}
	if got["Eau"] != 1.5 {
		t.Errorf("expected 1.5, got %v", got["Eau"])
	}
}

func TestParseQuantities_Errors(t *testing.T) {
	cases := []string{"noequals", "=5", "Eau=abc"}
	for _, c := range cases {
		if _, err := parseQuantities([]string{c}); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestParseQuantities_Empty(t *testing.T) {
	got, err := parseQuantities(nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil map, got %v", got)
	}
}

func TestFormatAnalysisResult_Table(t *testing.T) {
	result := &analysistypes.Result{
		GlobalScore: 49.5,
		RiskLevel:   "MOYEN",
		Substances: []analysistypes.SubstanceReport{
			{
				Name:           "Acétone",
				CAS:            "67-64-1",
				Inflammability: analysistypes.ScoreLevel{Score: 90, Level: "ELEVE"},
				Toxicity:       analysistypes.ScoreLevel{Score: 45, Level: "MOYEN"},
			},
		},
	}

	out, err := formatAnalysisResult(result, "table")
	if err != nil {
		t.Fatalf("formatting failed: %v", err)
	}
	if !strings.Contains(out, "SUBSTANCE") {
		t.Errorf("expected table header, got:\n%s", out)
	}
	if !strings.Contains(out, "90 (ELEVE)") {
		t.Errorf("expected inflammability cell, got:\n%s", out)
	}
	if !strings.Contains(out, "Global score: 49.5 (MOYEN)") {
		t.Errorf("expected global score line, got:\n%s", out)
	}
}

func TestTrimScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{49.5, "49.5"},
		{44.75, "44.75"},
		{90, "90"},
		{1.75, "1.75"},
	}
	for _, tt := range tests {
		if got := trimScore(tt.in); got != tt.want {
			t.Errorf("trimScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
