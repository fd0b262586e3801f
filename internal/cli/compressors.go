package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/ncdprime/internal/compressor"
)

var compressorsCmd = &cobra.Command{
	Use:   "compressors",
	Short: "Inspect available compressors",
}

var compressorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered compressors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range compressor.Default().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	compressorsCmd.AddCommand(compressorsListCmd)
	rootCmd.AddCommand(compressorsCmd)
}
