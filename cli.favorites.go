package main

import (
	"github.com/spf13/cobra"
)

func newFavoritesCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage your favorites (login required)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.guard(cmd.Context(), RequireAuth)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				page := c.app.FavoritesPage()
				if err := page.Load(cmd.Context()); err != nil {
					return err
				}
				return RenderFavorites(cmd.OutOrStdout(), page.Books())
			},
		},
		&cobra.Command{
			Use:   "add <id>",
			Short: "Add a book to your favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseBookID(args[0])
				if err != nil {
					return err
				}
				return c.app.CatalogPage().AddFavorite(cmd.Context(), id)
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a book from your favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseBookID(args[0])
				if err != nil {
					return err
				}
				page := c.app.FavoritesPage()
				if err := page.Remove(cmd.Context(), id); err != nil {
					return err
				}
				return RenderFavorites(cmd.OutOrStdout(), page.Books())
			},
		},
	)
	return cmd
}
