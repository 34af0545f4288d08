package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the dashboard theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(_ *cobra.Command, args []string) error {
	var current theme.Theme
	err := withSession(func(s *session) error {
		t, err := theme.Load(s.kv)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			current = t
			return nil
		}

		if args[0] == "toggle" {
			t = t.Toggle()
		} else if t, err = theme.Parse(args[0]); err != nil {
			return err
		}
		current = t
		return theme.Save(s.kv, t)
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"theme": string(current)})
	}
	output.Messagef(os.Stdout, "Theme: %s", current)
	return nil
}
