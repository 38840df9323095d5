package cmd

import (
	"fmt"
	"os"

	"github.com/RouteBytes/synthese-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	insOutputPath string
	insDelimiter  string
	insSampleRows int
	insMaxRows    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a source table or the synthesis output",
	Long: `Inspect prints a Markdown summary of a delimited table: row count,
per-column kind, missing percentage, numeric ranges and top categorical
values. Useful for checking source files before a build and for reading
the synthesis schema without opening the CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := analysis.DefaultOptions()
		if c, err := effectiveConfig(); err == nil {
			if c.InspectSampleRows > 0 {
				opt.SampleRows = c.InspectSampleRows
			}
			if c.InspectMaxRows > 0 {
				opt.MaxRows = c.InspectMaxRows
			}
		}
		if insSampleRows > 0 {
			opt.SampleRows = insSampleRows
		}
		if insMaxRows > 0 {
			opt.MaxRows = insMaxRows
		}
		if insDelimiter != "" {
			d, err := parseDelimiterFlag(insDelimiter)
			if err != nil {
				return err
			}
			opt.Delimiter = d
		}

		rep, err := analysis.ProfileFile(path, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", insOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "delimiter: ';' | ',' | 'tab' (auto-detect if omitted)")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 0, "number of sample rows to include")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 0, "maximum rows to process (0 = config default)")
}
