package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cozinha-magica/internal/kitchen"
	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/render"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("use --yes para confirmar a remoção")

func catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "catalog",
		Short:             "Lista os ingredientes disponíveis para o gerador",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noApp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range recipe.Catalog() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func recipesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "Mostra o livro de receitas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := application.Kitchen
			if err := k.Navigate(kitchen.Cookbook); err != nil {
				return err
			}
			recipes := k.Snapshot().Recipes
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma receita salva ainda.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Título", "IA", "Criada"})
			for _, r := range recipes {
				ai := ""
				if r.IsAIGenerated {
					ai = "✨"
				}
				t.AppendRow(table.Row{r.ID, r.Title, ai, humanize.Time(r.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

// openRecipe moves the controller to the recipe view of id.
func openRecipe(id string) error {
	k := application.Kitchen
	if err := k.Navigate(kitchen.Cookbook); err != nil {
		return err
	}
	if err := k.OpenRecipe(id); err != nil {
		return fmt.Errorf("receita %q: %w", id, err)
	}
	return nil
}

func printMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Mostra uma receita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openRecipe(args[0]); err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), render.RecipeMarkdown(*application.Kitchen.Snapshot().ActiveRecipe))
		},
	}
}

// saveAndReport saves the draft and prints the stored recipe.
func saveAndReport(ctx context.Context, w io.Writer) error {
	k := application.Kitchen
	if err := k.SaveDraft(ctx); err != nil {
		return err
	}
	snap := k.Snapshot()
	if len(snap.Recipes) == 0 {
		return nil
	}
	saved := snap.Recipes[0]
	fmt.Fprintf(w, "Receita salva: %s (%s)\n", saved.Title, saved.ID)
	return nil
}

// saveEdited saves the draft of an existing recipe and prints it.
func saveEdited(ctx context.Context, w io.Writer, id string) error {
	if err := application.Kitchen.SaveDraft(ctx); err != nil {
		return err
	}
	if err := application.Kitchen.OpenRecipe(id); err != nil {
		return err
	}
	return printMarkdown(w, render.RecipeMarkdown(*application.Kitchen.Snapshot().ActiveRecipe))
}

func newCommand() *cobra.Command {
	var (
		values  = map[recipe.Field]*string{}
		rewrite bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Cria uma receita manualmente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := application.Kitchen
			if err := k.StartManualRecipe(); err != nil {
				return err
			}
			for _, f := range recipe.Fields {
				if v := values[f]; v != nil && cmd.Flags().Changed(string(f)) {
					if err := k.SetField(f, *v); err != nil {
						return err
					}
				}
			}
			if rewrite {
				fmt.Fprintln(cmd.ErrOrStderr(), kitchen.LabelRewriting)
				if err := k.Rewrite(cmd.Context()); err != nil {
					return err
				}
			}
			return saveAndReport(cmd.Context(), cmd.OutOrStdout())
		},
	}
	for _, f := range recipe.Fields {
		values[f] = cmd.Flags().String(string(f), "", f.Label())
	}
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "reescreve a receita com IA antes de salvar")
	return cmd
}

func generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <ingrediente>...",
		Short: "Gera uma receita com IA a partir dos ingredientes do catálogo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := application.Kitchen
			if err := k.StartGenerator(); err != nil {
				return err
			}
			for _, name := range args {
				if err := k.ToggleIngredient(name); err != nil {
					return fmt.Errorf("ingrediente %q fora do catálogo: %w", name, err)
				}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), kitchen.LabelGenerating)
			if err := k.Generate(cmd.Context()); err != nil {
				return err
			}
			return saveAndReport(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// editRecipe opens the editor on an existing recipe.
func editRecipe(id string) error {
	if err := openRecipe(id); err != nil {
		return err
	}
	return application.Kitchen.EditRecipe()
}

func rewriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite <id>",
		Short: "Reescreve uma receita salva com IA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := editRecipe(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), kitchen.LabelRewriting)
			if err := application.Kitchen.Rewrite(cmd.Context()); err != nil {
				return err
			}
			return saveEdited(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func eraseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "erase <id> <termo>",
		Short: "Borracha Mágica: remove um ingrediente ou termo da receita",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args[1:], " ")
			if err := editRecipe(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), kitchen.EraseLabel(term))
			if err := application.Kitchen.Erase(cmd.Context(), term); err != nil {
				return err
			}
			return saveEdited(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <url>",
		Short: "Importa uma receita de uma página web",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := application.Kitchen
			if err := k.StartManualRecipe(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), kitchen.LabelImporting)
			if err := k.Import(cmd.Context(), args[0]); err != nil {
				return err
			}
			return saveAndReport(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove uma receita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := application.Kitchen
			if err := k.Navigate(kitchen.Cookbook); err != nil {
				return err
			}
			if err := k.RequestDelete(kitchen.KindRecipe, args[0]); err != nil {
				return fmt.Errorf("receita %q: %w", args[0], err)
			}
			if !yes {
				k.CancelDelete()
				return errNotConfirmed
			}
			if err := k.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Receita removida.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirma a remoção")
	return cmd
}
