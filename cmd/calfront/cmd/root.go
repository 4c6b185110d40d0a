package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cfg is the project-local .calfront.yaml config, loaded once before any
// subcommand runs. Flags set explicitly on the command line still take
// precedence; cfg only supplies defaults a flag didn't override.
var cfg Config

var rootCmd = &cobra.Command{
	Use:   "calfront",
	Short: "C/AL language-server frontend: lexer, parser, resolver, and symbol harvester",
	Long: `calfront exercises the C/AL compiler frontend from the command line:
tokenize source, parse it into an AST with recovered diagnostics, resolve a
DataType fragment to its semantic type, or dump a document's declaration
table.

This is developer tooling around the pkg/cal facade, not the frontend
itself — nothing here is imported by internal/ or pkg/cal.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading .calfront.yaml: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable JSON instead of text")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
