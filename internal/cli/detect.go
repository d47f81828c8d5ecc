package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/tokens"
)

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [dir]",
		Short: "Detect the token format used in a directory",
		Long: `Scan the JSON files directly inside a directory (default: current directory)
and report the token format of the first file, in filename order, that matches
a known schema.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			format, file, ok := tokens.DetectFormatSource(dir)
			if !ok {
				return fmt.Errorf("%s: %w", dir, tokens.ErrFormatDetectionInconclusive)
			}
			a.logger.Debug("format detected", "file", file)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", format.Name, file)
			return nil
		},
	}
}
