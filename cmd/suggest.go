package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest TEXT",
	Short: "Suggest a category for a task name",
	Long: `Prints the category whose keywords appear in TEXT. Exits with status 1
when no category matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(_ *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	c, ok := category.Suggest(text, "")

	if outputFormat() == output.FormatJSON {
		resp := map[string]any{"text": text, "suggested": ok}
		if ok {
			resp["category"] = c
			resp["info"] = c.Info()
		}
		return output.JSON(os.Stdout, resp)
	}

	if !ok {
		output.Messagef(os.Stderr, "No category matches %q", text)
		return &clierr.SilentError{Code: 1}
	}
	output.Messagef(os.Stdout, "%s (%s)", c, c.Label())
	return nil
}
