package main

import (
	"errors"
	"fmt"
	"os"

	"cozinha-magica/internal/export"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var errExportFailed = errors.New("não foi possível exportar, veja o log para detalhes")

func runExport(cmd *cobra.Command, rawFormat string) error {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return err
	}
	file, err := application.Kitchen.Export(cmd.Context(), format)
	if err != nil {
		return err
	}
	if file == nil {
		return errExportFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), application.Sink.Path(*file))
	return nil
}

func exportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Exporta uma receita como PNG ou PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openRecipe(args[0]); err != nil {
				return err
			}
			return runExport(cmd, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatPDF), "png ou pdf")
	return cmd
}

func exportListCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export-list <id>",
		Short: "Exporta uma lista de compras como PNG ou PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openShoppingList(args[0]); err != nil {
				return err
			}
			return runExport(cmd, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatPDF), "png ou pdf")
	return cmd
}

func importLegacyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy <arquivo>",
		Short: "Importa um dump do localStorage do aplicativo web",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			report, err := application.ImportLegacy(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Importadas %d receitas e %d listas (%d receitas e %d listas já existiam).\n",
				report.Recipes, report.ShoppingLists, report.SkippedRecipes, report.SkippedLists)
			return nil
		},
	}
}

func usageCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Mostra o consumo de tokens da IA por dia",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			usage, err := application.Metrics.GetDailyUsage(cmd.Context(), days)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Dia", "Prompt", "Resposta", "Chamadas"})
			for _, d := range usage {
				t.AppendRow(table.Row{d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "quantidade de dias")
	return cmd
}

func metricsCleanupCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove registros de uso mais antigos que N dias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				return fmt.Errorf("--days deve ser maior que zero")
			}
			removed, err := application.Metrics.Cleanup(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d registros removidos.\n", removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "mantém os últimos N dias")
	return cmd
}
