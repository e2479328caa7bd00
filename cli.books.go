package main

import (
	"github.com/spf13/cobra"
)

func newBooksCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the public catalog",
	}
	cmd.AddCommand(newBooksListCommand(c), newBooksShowCommand(c))
	return cmd
}

func newBooksListCommand(c *CLI) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := c.app.CatalogPage()
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			page.SetQuery(query)
			return RenderCatalog(cmd.OutOrStdout(), page.Visible())
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "keep books whose title, year, authors or genres contain this text")
	return cmd
}

func newBooksShowCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			page := c.app.BookPage()
			if err := page.Load(cmd.Context(), id); err != nil {
				return err
			}
			var favorite *bool
			if c.app.session.IsAuthenticated() {
				f := page.IsFavorite()
				favorite = &f
			}
			return RenderBookDetail(cmd.OutOrStdout(), *page.Book(), favorite)
		},
	}
}
