package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
)

// NewSubstancesCmd creates the substances command, listing the reference
// catalog either from the local CSV files or from a running API server.
func NewSubstancesCmd() *cobra.Command {
	var (
		query string
		file  string
	)

	cmd := &cobra.Command{
		Use:   "substances",
		Short: "List the substances of the reference catalog",
		Long:  "List the substances of the reference catalog with their flash point,\ntoxicity level and category.  An optional query filters by name or CAS\nnumber, case-insensitively.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), analysisTimeout(cmd))
			defer cancel()

			items, err := listSubstances(ctx, cliCtx, query)
			if err != nil {
				return err
			}

			content, err := formatSubstanceList(items, cliCtx.OutputFormat)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return writeOutput(cmd, content, file)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by substance name or CAS number")
	cmd.Flags().StringVar(&file, "file", "", "output file path (default: stdout)")

	return cmd
}

// listSubstances fetches the catalog listing from the server or the local
// engine, applying the query filter in both modes.
func listSubstances(ctx context.Context, cliCtx *CLIContext, query string) ([]*analysistypes.SubstanceSummary, error) {
	if cliCtx.Client != nil {
		return cliCtx.Client.Substances(ctx, query)
	}

	svc, err := newLocalService(cliCtx)
	if err != nil {
		return nil, err
	}
	return filterSummaries(svc.Substances(), query), nil
}

// filterSummaries keeps entries whose name or CAS number contains the query,
// case-insensitively.  An empty query keeps everything.
func filterSummaries(items []*analysistypes.SubstanceSummary, query string) []*analysistypes.SubstanceSummary {
	if query == "" {
		return items
	}

	q := strings.ToLower(query)
	filtered := items[:0:0]
	for _, s := range items {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.CAS), q) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// formatSubstanceList renders the catalog listing in the requested format.
// Both text and table use the aligned table; json returns the wire shape.
func formatSubstanceList(items []*analysistypes.SubstanceSummary, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return marshalIndentJSON(items)

	case "text", "table", "":
		rows := make([][]string, 0, len(items))
		for _, s := range items {
			fp := "-"
			if s.FlashPointC != nil {
				fp = trimScore(*s.FlashPointC)
			}
			rows = append(rows, []string{s.CAS, s.Name, fp, s.ToxicityLevel, s.Category})
		}
		var sb strings.Builder
		sb.WriteString(FormatTable(
			[]string{"CAS", "NAME", "FLASH POINT", "TOXICITY", "CATEGORY"},
			rows,
		))
		fmt.Fprintf(&sb, "\nTotal: %d\n", len(items))
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
