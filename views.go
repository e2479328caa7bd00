package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const listSeparator = ", "

// CatalogEntry is one line of a rendered book list.
type CatalogEntry struct {
	ID       int64
	Title    string
	Subtitle string
}

// CatalogEntries turns books into entries titled "<title> (<year>)".
func CatalogEntries(books []BookSummary) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(books))
	for _, b := range books {
		entries = append(entries, CatalogEntry{
			ID:       b.ID,
			Title:    fmt.Sprintf("%s (%d)", b.Title, b.Year),
			Subtitle: fmt.Sprintf("Authors: %s · Genres: %s", joinOrDash(b.Authors), joinOrDash(b.Genres)),
		})
	}
	return entries
}

// RenderCatalog writes the catalog as a table.
func RenderCatalog(w io.Writer, books []BookSummary) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, "No books found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tBOOK\tDETAILS")
	for _, e := range CatalogEntries(books) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, truncateString(e.Title, 60), e.Subtitle)
	}
	return tw.Flush()
}

// RenderFavorites writes the favorites list.
func RenderFavorites(w io.Writer, books []BookSummary) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, "No favorites yet.")
		return err
	}
	return RenderCatalog(w, books)
}

// RenderAdminBooks writes the compact list shown next to the admin form.
func RenderAdminBooks(w io.Writer, books []BookSummary) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tAUTHORS")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", b.ID, truncateString(b.Title, 60), b.Year, joinOrDash(b.Authors))
	}
	return tw.Flush()
}

// RenderBookDetail writes every field of a book, with the favorite
// flag when known.
func RenderBookDetail(w io.Writer, book BookDetail, favorite *bool) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Title:\t%s\n", book.Title)
	fmt.Fprintf(tw, "Year:\t%d\n", book.Year)
	if book.ISBN != nil {
		fmt.Fprintf(tw, "ISBN:\t%s\n", *book.ISBN)
	}
	fmt.Fprintf(tw, "Authors:\t%s\n", joinOrDash(book.Authors))
	fmt.Fprintf(tw, "Genres:\t%s\n", joinOrDash(book.Genres))
	if favorite != nil {
		fmt.Fprintf(tw, "Favorite:\t%s\n", yesNo(*favorite))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if book.Description != nil {
		_, err := fmt.Fprintf(w, "\n%s\n", *book.Description)
		return err
	}
	return nil
}

// RenderProfile writes the current user, or a notice when anonymous.
func RenderProfile(w io.Writer, profile *Profile) error {
	if profile == nil {
		_, err := fmt.Fprintln(w, "Not logged in.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", profile.ID)
	fmt.Fprintf(tw, "Email:\t%s\n", profile.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", profile.Role)
	return tw.Flush()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, listSeparator)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
