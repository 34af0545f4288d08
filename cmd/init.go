package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/config"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a daytrack data directory",
	Long: `Creates a .daytrack directory with config.yml in the current directory
(or at --dir). Tasks are stored there instead of the per-user directory.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("backend", config.DefaultBackend, "storage backend (file, sqlite)")
	initCmd.Flags().String("file", "", "storage file name inside the data directory")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	backend, _ := cmd.Flags().GetString("backend")
	file, _ := cmd.Flags().GetString("file")

	settings := config.NewDefault()
	if err := settings.Set("storage.backend", backend); err != nil {
		return err
	}
	settings.Storage.File = file

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}
	cfg.Storage = settings.Storage
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	kv, err := cfg.OpenStorage()
	if err != nil {
		return err
	}
	storePath := kv.Path()
	if err := kv.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     cfg.Dir(),
			"config":  cfg.ConfigPath(),
			"backend": cfg.Storage.Backend,
			"store":   storePath,
		})
	}

	output.Messagef(os.Stdout, "Initialized daytrack in %s", cfg.Dir())
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Storage: %s (%s)", storePath, cfg.Storage.Backend)
	return nil
}
