package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/ncdprime/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Work with run results",
}

var resultsCSVCmd = &cobra.Command{
	Use:   "csv <results.jsonl>",
	Short: "Convert a results file to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsCSV,
}

var resultsCSVOut string

func init() {
	resultsCSVCmd.Flags().StringVarP(&resultsCSVOut, "out", "o", "", "CSV output path (default stdout)")
	resultsCmd.AddCommand(resultsCSVCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runResultsCSV(cmd *cobra.Command, args []string) error {
	rows, err := results.ReadFile(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if resultsCSVOut != "" {
		f, err := os.Create(resultsCSVOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := results.WriteCSV(w, rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	if resultsCSVOut != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), resultsCSVOut)
	}
	return nil
}
