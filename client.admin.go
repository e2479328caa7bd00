package main

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
)

const (
	DefaultExportFilename    = "books.csv"
	DefaultExportContentType = "text/csv"
)

// AdminAPI groups the administrator only endpoints.
type AdminAPI interface {
	ExportBooksCSV(ctx context.Context, token string) (CSVFile, error)
}

// ExportBooksCSV downloads the catalog report. The payload is kept as
// received, its filename comes from the Content-Disposition header.
func (c *APIClient) ExportBooksCSV(ctx context.Context, token string) (CSVFile, error) {
	var content []byte
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/admin/books/export.csv", Token: token}, &content)
	if err != nil {
		return CSVFile{}, err
	}

	file := CSVFile{
		Filename:    DefaultExportFilename,
		ContentType: DefaultExportContentType,
		Content:     content,
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		file.ContentType = ct
	}
	if name := attachmentFilename(resp.Header.Get("Content-Disposition")); name != "" {
		file.Filename = name
	}
	return file, nil
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	// only keep the base name, the value comes from the network.
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
