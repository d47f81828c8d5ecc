// Package cli provides the command-line interface for tonal.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/version"
)

// NewRootCmd builds the tonal command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tonal",
		Short: "A design-system colour palette generator",
		Long: `Tonal turns a single brand colour into a complete design-system palette:
primary, secondary, neutral and semantic scales, exported as design tokens.

Palettes come from the first available provider: an external model (Ollama or
Google GenAI, when configured), colour-harmony heuristics, or a rule table that
always succeeds. Output can be checked for WCAG contrast and colour-blind
distinguishability.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file read before TONAL_* variables")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newDetectCmd(a))
	rootCmd.AddCommand(newFormatsCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
