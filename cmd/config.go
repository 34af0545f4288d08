package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/config"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keys := config.Keys()
	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(keys))
		for _, key := range keys {
			m[key], _ = cfg.Get(key)
		}
		m["dir"] = cfg.Dir()
		return output.JSON(os.Stdout, m)
	}

	fmt.Fprintf(os.Stdout, "%-22s %s\n", "dir", cfg.Dir())
	for _, key := range keys {
		val, _ := cfg.Get(key)
		fmt.Fprintf(os.Stdout, "%-22s %s\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	val, _ := cfg.Get(key)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": val})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, formatConfigValue(val))
	return nil
}

func formatConfigValue(val any) string {
	if s, ok := val.(string); ok && s == "" {
		return "--"
	}
	return fmt.Sprintf("%v", val)
}
