package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog (administrator only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.guard(cmd.Context(), RequireAdmin)
		},
	}
	cmd.AddCommand(
		newAdminBooksCommand(c),
		newAdminCreateCommand(c),
		newAdminDeleteCommand(c),
		newAdminExportCommand(c),
	)
	return cmd
}

func newAdminBooksCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := c.app.AdminPage()
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return RenderAdminBooks(cmd.OutOrStdout(), page.Books())
		},
	}
}

func newAdminCreateCommand(c *CLI) *cobra.Command {
	var (
		title, isbn, description, authors, genres string
		year                                      int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("year") {
				year = c.app.clock.Now().Year()
			}
			req := BookCreateRequest{
				Title:   title,
				Year:    year,
				Authors: SplitCommaList(authors),
				Genres:  SplitCommaList(genres),
			}
			if cmd.Flags().Changed("isbn") {
				req.ISBN = &isbn
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			created, err := c.app.AdminPage().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return RenderBookDetail(cmd.OutOrStdout(), created, nil)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title (required)")
	cmd.Flags().IntVar(&year, "year", 0, "publication year (default: current year)")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&authors, "authors", "", "comma separated author names")
	cmd.Flags().StringVar(&genres, "genres", "", "comma separated genre names")
	return cmd
}

func newAdminDeleteCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			return c.app.AdminPage().Delete(cmd.Context(), id)
		},
	}
}

func newAdminExportCommand(c *CLI) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the catalog as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := c.app.AdminPage().Export(cmd.Context())
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(file.Content)
				return err
			}
			if output == "" {
				output = file.Filename
			}
			if err := os.WriteFile(output, file.Content, 0o644); err != nil {
				return fmt.Errorf("failed to save export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %d bytes to %s\n", len(file.Content), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file, - for stdout (default: the name sent by the api)")
	return cmd
}
