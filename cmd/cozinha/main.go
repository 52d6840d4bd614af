// Command cozinha manages recipes and shopping lists from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"cozinha-magica/internal/app"
	"cozinha-magica/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	debug       bool
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:           "cozinha",
	Short:         "Cozinha Mágica: receitas e listas de compras com IA",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		cfg, err := config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err := app.NewLogger(debug || cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		application, err = app.New(cmd.Context(), cfg, logger)
		return err
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeApp()
	},
}

func closeApp() error {
	if application == nil {
		return nil
	}
	_ = application.Logger.Sync()
	err := application.Close()
	application = nil
	return err
}

// noApp skips building the application for commands that do not need it.
func noApp(*cobra.Command, []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		catalogCommand(),
		recipesCommand(),
		showCommand(),
		newCommand(),
		generateCommand(),
		rewriteCommand(),
		eraseCommand(),
		importCommand(),
		deleteCommand(),
		listsCommand(),
		showListCommand(),
		shopCommand(),
		deleteListCommand(),
		exportCommand(),
		exportListCommand(),
		importLegacyCommand(),
		usageCommand(),
		metricsCleanupCommand(),
	)
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if cerr := closeApp(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}
