// README: Entry point; cobra root command with .env loading and viper config.
package main

import (
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voyage/internal/config"
	"voyage/internal/logging"
)

var version = "dev"

type app struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "voyage",
		Short:         "AI travel itinerary generation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is fine.
			_ = godotenv.Load()
			if cmd.Name() == "version" || cmd.Name() == "presets" || cmd.Name() == "bench" {
				return nil
			}
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.New(logging.Options{
				Level:  logging.ParseLevel(cfg.Log.Level),
				Format: cfg.Log.Format,
				Output: os.Stderr,
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "optional config file (yaml, json or toml)")
	flags.String("provider", "", "model provider: gemini, groq, openai or static")
	flags.String("model", "", "model name override")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	bindFlag(a.v, "llm.provider", flags.Lookup("provider"))
	bindFlag(a.v, "llm.model", flags.Lookup("model"))
	bindFlag(a.v, "log.level", flags.Lookup("log-level"))

	root.AddCommand(newServeCmd(a), newPlanCmd(a), newPresetsCmd(), newBenchCmd(), newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
