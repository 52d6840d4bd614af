package main

import (
	"fmt"

	"cozinha-magica/internal/kitchen"
	"cozinha-magica/internal/render"
	"cozinha-magica/internal/shopping"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func listsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Mostra as listas de compras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := application.Kitchen
			if err := k.Navigate(kitchen.ShoppingListIndex); err != nil {
				return err
			}
			lists := k.Snapshot().ShoppingLists
			if len(lists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma lista de compras criada ainda.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Receita", "Mercado", "Data", "Criada"})
			for _, l := range lists {
				t.AppendRow(table.Row{l.ID, l.RecipeTitle, l.Market, l.Date, humanize.Time(l.CreatedAt)})
			}
			t.Render()
			return nil
		},
	}
}

func openShoppingList(id string) error {
	k := application.Kitchen
	if err := k.Navigate(kitchen.ShoppingListIndex); err != nil {
		return err
	}
	if err := k.OpenShoppingList(id); err != nil {
		return fmt.Errorf("lista %q: %w", id, err)
	}
	return nil
}

func showListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show-list <id>",
		Short: "Mostra uma lista de compras",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openShoppingList(args[0]); err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), render.ShoppingListMarkdown(*application.Kitchen.Snapshot().ActiveList))
		},
	}
}

func shopCommand() *cobra.Command {
	values := map[shopping.Detail]*string{}
	flagNames := map[shopping.Detail]string{
		shopping.DetailMarket:     "market",
		shopping.DetailStore:      "store",
		shopping.DetailDate:       "date",
		shopping.DetailTime:       "time",
		shopping.DetailExtraItems: "extra",
	}

	cmd := &cobra.Command{
		Use:   "shop <recipe-id>",
		Short: "Cria uma lista de compras a partir de uma receita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := application.Kitchen
			if err := openRecipe(args[0]); err != nil {
				return err
			}
			if err := k.OpenShoppingListForm(); err != nil {
				return err
			}
			for _, d := range shopping.AllDetails {
				if v := values[d]; v != nil && *v != "" {
					if err := k.SetListDetail(d, *v); err != nil {
						return err
					}
				}
			}
			if err := k.CreateShoppingList(cmd.Context()); err != nil {
				return err
			}
			lists := k.Snapshot().ShoppingLists
			if len(lists) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Lista criada: %s (%s)\n", lists[0].RecipeTitle, lists[0].ID)
			}
			return nil
		},
	}
	for _, d := range shopping.AllDetails {
		values[d] = cmd.Flags().String(flagNames[d], "", d.Label())
	}
	return cmd
}

func deleteListCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-list <id>",
		Short: "Remove uma lista de compras",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := application.Kitchen
			if err := k.Navigate(kitchen.ShoppingListIndex); err != nil {
				return err
			}
			if err := k.RequestDelete(kitchen.KindShoppingList, args[0]); err != nil {
				return fmt.Errorf("lista %q: %w", args[0], err)
			}
			if !yes {
				k.CancelDelete()
				return errNotConfirmed
			}
			if err := k.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Lista removida.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirma a remoção")
	return cmd
}
