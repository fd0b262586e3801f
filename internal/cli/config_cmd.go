package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/ncdprime/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the current configuration (loaded from file or defaults).`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config file",
	Long: `Write the default configuration to path (default ncdprime.toml). The
format follows --format, or the file extension when --format is not set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configResolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a config file into normalized JSON",
	Long: `Load a config file, fill in every default, validate it and write the
result as JSON, so a run can be reproduced from one self-contained file.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigResolve,
}

const (
	defaultInitPath  = "ncdprime.toml"
	defaultResolveTo = "ncdprime.lock.json"
)

var (
	validateOnly  bool
	showFormat    string
	initFormat    string
	initOverwrite bool
	resolveOut    string
)

func init() {
	for _, c := range []*cobra.Command{configCmd, configShowCmd} {
		c.Flags().BoolVar(&validateOnly, "validate", false, "only validate config, don't print")
		c.Flags().StringVar(&showFormat, "format", "yaml", "output format: yaml, toml or json")
	}

	configInitCmd.Flags().StringVar(&initFormat, "format", "", "file format: toml, yaml or json")
	configInitCmd.Flags().BoolVar(&initOverwrite, "overwrite", false, "replace an existing file")

	configResolveCmd.Flags().StringVarP(&resolveOut, "out", "o", defaultResolveTo, "output path")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configResolveCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "Configuration invalid: %v\n", err)
		return err
	}

	if validateOnly {
		fmt.Fprintln(out, "Configuration is valid")
		return nil
	}

	format, err := config.ParseFormat(showFormat)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg, format)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := defaultInitPath
	if len(args) == 1 {
		path = args[0]
	}

	var (
		format config.Format
		err    error
	)
	if initFormat != "" {
		format, err = config.ParseFormat(initFormat)
	} else {
		format, err = config.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !initOverwrite {
		return fmt.Errorf("%s exists; pass --overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	data, err := config.Marshal(config.Default(), format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg, config.FormatJSON)
	if err != nil {
		return err
	}
	if err := os.WriteFile(resolveOut, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", resolveOut)
	return nil
}
