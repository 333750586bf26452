package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/errors"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

// AnalyzeOptions holds the analyze command flags.
type AnalyzeOptions struct {
	PatentID    string
	CompanyName string
}

// NewAnalyzeCmd submits one analysis and prints the result.
func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a patent against a company's products",
		Example: `  patentlens analyze --patent-id US-RE49889-E1 --company-name "Walmart Inc."
  patentlens analyze --patent-id US-RE49889-E1 --company-name "Walmart Inc." -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PatentID, "patent-id", "", "patent publication number, e.g. US-RE49889-E1")
	cmd.Flags().StringVar(&opts.CompanyName, "company-name", "", "company whose products are checked")
	_ = cmd.MarkFlagRequired("patent-id")
	_ = cmd.MarkFlagRequired("company-name")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	f := form.New(cliCtx.Client, form.WithLogger(cliCtx.Logger))
	defer f.Close()

	f.SetPatentID(opts.PatentID)
	f.SetCompanyName(opts.CompanyName)
	if err := f.Submit(cmd.Context()); err != nil {
		return err
	}

	view := f.View()
	if view.State != form.StateSuccess {
		return errors.New(errors.ErrCodeAnalysisFailed, view.Error)
	}

	if cliCtx.OutputFormat == OutputJSON {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), view.ResultJSON)
		return err
	}
	printSummary(cmd, view.Result)
	return nil
}

func printSummary(cmd *cobra.Command, r *analysis.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Patent:   %s  %s\n", r.PatentID, r.PatentTitle)
	fmt.Fprintf(out, "Company:  %s\n", r.CompanyName)
	fmt.Fprintf(out, "Analysis: %s (%s)\n", r.AnalysisID, r.AnalysisDate)
	fmt.Fprintln(out)

	if len(r.TopInfringingProducts) > 0 {
		rows := make([][]string, 0, len(r.TopInfringingProducts))
		for _, p := range r.TopInfringingProducts {
			rows = append(rows, []string{
				p.ProductName,
				string(p.InfringementLikelihood),
				strings.Join(p.RelevantClaims, ", "),
			})
		}
		fmt.Fprint(out, FormatTable([]string{"PRODUCT", "LIKELIHOOD", "CLAIMS"}, rows))
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Overall risk: %s\n", r.OverallRiskAssessment)
}
