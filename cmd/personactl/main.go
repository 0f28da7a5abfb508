// Command personactl runs the persona server and analyzes record fixtures
// offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/personas/internal/config"
	"github.com/mmynk/personas/internal/persona"
	"github.com/mmynk/personas/pkg/logging"
)

// app is the state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "personactl",
		Short:         "Infer spending personas from group expense history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("catalog", "", "persona catalog YAML (default: embedded)")

	root.AddCommand(
		newServeCmd(a),
		newCatalogCmd(a),
		newAnalyzeCmd(a),
		newSeedCmd(a),
	)
	return root
}

// flagKeys maps command-line flags onto config keys. A flag only overrides
// env and file values when it is set explicitly.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"catalog":   "catalog_path",
	"port":      "port",
	"db-path":   "db_path",
}

// load binds the running command's flags and decodes the configuration.
func (a *app) load(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if a.configPath != "" {
		a.v.SetConfigFile(a.configPath)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", a.configPath, err)
		}
	}
	cfg, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Setup(cfg.LogLevel)
	return nil
}

func (a *app) catalog() (*persona.Catalog, error) {
	if a.cfg.CatalogPath == "" {
		return persona.Default(), nil
	}
	return persona.LoadCatalogFile(a.cfg.CatalogPath)
}
