package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemRisk-Intelligence/internal/application/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/internal/config"
	"github.com/turtacn/ChemRisk-Intelligence/internal/domain/reaction"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/errors"
	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

// NewAnalyzeCmd creates the analyze command.  Substances are given as
// positional arguments; the lab context and quantities come from flags.
func NewAnalyzeCmd() *cobra.Command {
	var (
		quantities  []string
		temperature float64
		humidity    float64
		ventilation bool
		file        string
	)

	cmd := &cobra.Command{
		Use:   "analyze <substance> [substance...]",
		Short: "Score the risk of handling substances together",
		Long:  "Score the combined handling risk of one or more substances, reporting\nthe weighted global score, the per-category breakdown, detected\nincompatibilities, recommendations and warnings.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			req := &analysistypes.Request{Substances: args}

			parsed, err := parseQuantities(quantities)
			if err != nil {
				return err
			}
			if len(parsed) > 0 {
				req.Quantities = parsed
			}

			req.LabContext = labContextFromFlags(cmd, temperature, humidity, ventilation)

			ctx, cancel := context.WithTimeout(cmd.Context(), analysisTimeout(cmd))
			defer cancel()

			result, err := runAnalysis(ctx, cliCtx, req)
			if err != nil {
				return err
			}

			content, err := formatAnalysisResult(result, cliCtx.OutputFormat)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			if err := writeOutput(cmd, content, file); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			if result.RiskLevel == common.RiskEleve {
				warnHighRisk(cmd, cliCtx.NoColor)
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&quantities, "quantity", "q", nil, "substance quantity as name=amount (repeatable)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "lab temperature in degrees Celsius")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "lab relative humidity in percent")
	cmd.Flags().BoolVar(&ventilation, "ventilation", true, "whether the handling area is ventilated")
	cmd.Flags().StringVar(&file, "file", "", "output file path (default: stdout)")

	return cmd
}

// runAnalysis dispatches to the API server when a client is configured,
// otherwise builds the engine locally from the configured catalog.
func runAnalysis(ctx context.Context, cliCtx *CLIContext, req *analysistypes.Request) (*analysistypes.Result, error) {
	if cliCtx.Client != nil {
		return cliCtx.Client.Analyze(ctx, req)
	}

	svc, err := newLocalService(cliCtx)
	if err != nil {
		return nil, err
	}
	return svc.Analyze(ctx, req)
}

// newLocalService loads the CSV catalog and assembles the scoring engine
// in-process.  A Postgres-backed catalog requires the API server.
func newLocalService(cliCtx *CLIContext) (*analysis.Service, error) {
	cfg := cliCtx.Config
	if cfg.Catalog.Source != "csv" {
		return nil, errors.Validation(fmt.Sprintf("catalog source %q requires a running API server; use --server", cfg.Catalog.Source))
	}

	cat, err := catalog.Load(cfg.Catalog, cliCtx.Logger)
	if err != nil {
		return nil, err
	}

	engine := analysis.NewEngine(
		cat.Substances,
		cat.Incompatibilities,
		reaction.DefaultRegistry(),
		engineConfig(cfg),
		cliCtx.Logger,
	)
	return analysis.NewService(engine, cliCtx.Logger), nil
}

// engineConfig maps the validated application configuration onto the engine
// parameters.
func engineConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		Weights: analysis.Weights{
			Inflammability:  cfg.Scoring.Weights.Inflammability,
			Toxicity:        cfg.Scoring.Weights.Toxicity,
			Incompatibility: cfg.Scoring.Weights.Incompatibility,
		},
		MediumRiskThreshold:           cfg.Scoring.MediumRiskThreshold,
		HighRiskThreshold:             cfg.Scoring.HighRiskThreshold,
		InflammabilityActionThreshold: cfg.Scoring.InflammabilityActionThreshold,
		ToxicityActionThreshold:       cfg.Scoring.ToxicityActionThreshold,
		HighTemperatureC:              cfg.Scoring.HighTemperatureC,
		MaxSubstances:                 cfg.Analysis.MaxSubstances,
	}
}

// parseQuantities parses repeated name=amount flags into the request map.
func parseQuantities(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, amount, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid quantity %q (expected name=amount)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: amount is not a number", pair)
		}
		out[name] = v
	}
	return out, nil
}

// labContextFromFlags builds the optional lab context from the flags the user
// actually set.  Unset flags stay absent from the request so the engine
// applies its own defaults.
func labContextFromFlags(cmd *cobra.Command, temperature, humidity float64, ventilation bool) *analysistypes.LabContext {
	flags := cmd.Flags()

	labCtx := &analysistypes.LabContext{}
	set := false
	if flags.Changed("temperature") {
		t := temperature
		labCtx.TemperatureC = &t
		set = true
	}
	if flags.Changed("humidity") {
		h := humidity
		labCtx.HumidityPercent = &h
		set = true
	}
	if flags.Changed("ventilation") {
		v := ventilation
		labCtx.Ventilation = &v
		set = true
	}

	if !set {
		return nil
	}
	return labCtx
}

// analysisTimeout resolves the global --timeout flag from the root command.
func analysisTimeout(cmd *cobra.Command) time.Duration {
	d := 30 * time.Second
	if f := cmd.Flags().Lookup("timeout"); f != nil {
		if v, err := time.ParseDuration(f.Value.String()); err == nil && v > 0 {
			d = v
		}
	}
	return d
}

// formatAnalysisResult renders the analysis result in the requested output
// format.
func formatAnalysisResult(result *analysistypes.Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return marshalIndentJSON(result)

	case "table":
		rows := make([][]string, 0, len(result.Substances))
		for _, s := range result.Substances {
			rows = append(rows, []string{
				s.Name,
				s.CAS,
				trimScore(s.Inflammability.Score) + " (" + s.Inflammability.Level + ")",
				trimScore(s.Toxicity.Score) + " (" + s.Toxicity.Level + ")",
			})
		}
		var sb strings.Builder
		sb.WriteString(FormatTable(
			[]string{"SUBSTANCE", "CAS", "INFLAMMABILITY", "TOXICITY"},
			rows,
		))
		fmt.Fprintf(&sb, "\nGlobal score: %s (%s)\n", trimScore(result.GlobalScore), result.RiskLevel)
		return sb.String(), nil

	case "text", "":
		return renderAnalysisText(result), nil

	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// renderAnalysisText produces the human-readable report.
func renderAnalysisText(result *analysistypes.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Global score: %s (%s)\n", trimScore(result.GlobalScore), result.RiskLevel)
	sb.WriteString("\n")

	d := result.Details
	fmt.Fprintf(&sb, "Inflammability: %s\n", trimScore(d.Inflammability.Score))
	if d.Inflammability.Explanation != "" {
		fmt.Fprintf(&sb, "  %s\n", d.Inflammability.Explanation)
	}
	fmt.Fprintf(&sb, "Toxicity:       %s\n", trimScore(d.Toxicity.Score))
	if d.Toxicity.Explanation != "" {
		fmt.Fprintf(&sb, "  %s\n", d.Toxicity.Explanation)
	}

	if len(d.Incompatibilities) > 0 {
		sb.WriteString("\nIncompatibilities:\n")
		for _, inc := range d.Incompatibilities {
			fmt.Fprintf(&sb, "  %s: %s (%s)\n", inc.Substances, trimScore(inc.Score), inc.Level)
			if inc.Explanation != "" {
				fmt.Fprintf(&sb, "    %s\n", inc.Explanation)
			}
			if inc.Equation != "" {
				fmt.Fprintf(&sb, "    %s\n", inc.Equation)
			}
		}
	}

	if len(result.Substances) > 0 {
		sb.WriteString("\nSubstances:\n")
		for _, s := range result.Substances {
			fmt.Fprintf(&sb, "  %s (CAS %s): inflammability %s/%s, toxicity %s/%s\n",
				s.Name, s.CAS,
				trimScore(s.Inflammability.Score), s.Inflammability.Level,
				trimScore(s.Toxicity.Score), s.Toxicity.Level)
		}
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, rec)
		}
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", w)
		}
	}

	return sb.String()
}

// trimScore formats a score without trailing zeros.
func trimScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// warnHighRisk prints a colored warning for high-risk results on stderr.
func warnHighRisk(cmd *cobra.Command, noColor bool) {
	msg := "WARNING: global risk level is ELEVE"
	if noColor || os.Getenv("NO_COLOR") != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[31m%s\033[0m\n", msg)
}
