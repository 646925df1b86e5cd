package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/fsutil"
	"github.com/vk/objgraph/internal/hclreader"
	"github.com/vk/objgraph/internal/jsonreader"
	"github.com/vk/objgraph/internal/objwriter"
	"github.com/vk/objgraph/internal/xamlnode"
)

var formatsByExtension = map[string]string{
	".hcl":   FormatHCL,
	".json":  FormatJSON,
	".jsonc": FormatJSON,
}

// Document is the object graph materialized from one file.
type Document struct {
	File  string `json:"file"`
	Graph any    `json:"graph"`
}

// Files returns the documents named by the configured path: the path itself,
// or every document below it when it is a directory.
func (a *App) Files() ([]string, error) {
	info, err := os.Stat(a.config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.config.Path, err)
	}
	if !info.IsDir() {
		return []string{a.config.Path}, nil
	}

	exts := make([]string, 0, len(formatsByExtension))
	for ext, format := range formatsByExtension {
		if a.config.Format == FormatAuto || a.config.Format == format {
			exts = append(exts, ext)
		}
	}
	files, err := fsutil.FindFiles(a.config.Path, exts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", a.config.Path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no documents found in %s", a.config.Path)
	}
	return files, nil
}

// Load materializes the object graph of every configured document.
func (a *App) Load(ctx context.Context) ([]Document, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	files, err := a.Files()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, file := range files {
		nodes, err := a.parse(ctx, file)
		if err != nil {
			return nil, err
		}
		w := objwriter.New(ctx, a.schema)
		if err := xamlnode.Transfer(ctx, nodes, w); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		graph, err := w.Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		a.logger.Info("Document loaded.", "file", file, "root", fmt.Sprintf("%T", graph))
		docs = append(docs, Document{File: file, Graph: graph})
	}
	return docs, nil
}

// parse reads file and turns it into write events with the reader for its
// format.
func (a *App) parse(ctx context.Context, file string) (*xamlnode.List, error) {
	format, err := a.formatOf(file)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	a.logger.Debug("Parsing document.", "file", file, "format", format, "bytes", len(src))

	switch format {
	case FormatHCL:
		return hclreader.Parse(ctx, src, file, a.schema, hclreader.WithIgnoreUnknownMembers(a.config.IgnoreUnknownMembers))
	default:
		return jsonreader.Parse(ctx, src, file, a.schema, jsonreader.WithIgnoreUnknownMembers(a.config.IgnoreUnknownMembers))
	}
}

func (a *App) formatOf(file string) (string, error) {
	if a.config.Format != FormatAuto {
		return a.config.Format, nil
	}
	format, ok := formatsByExtension[strings.ToLower(filepath.Ext(file))]
	if !ok {
		return "", fmt.Errorf("cannot infer the format of %s; set it with --format", file)
	}
	return format, nil
}
