package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/xamlnode"
)

// Run loads the configured documents and prints their object graphs in the
// configured output encoding. A single document prints its graph alone; a
// directory prints the list of documents.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "path", a.config.Path)

	docs, err := a.Load(ctx)
	if err != nil {
		return err
	}

	var out any = docs
	if len(docs) == 1 {
		out = docs[0].Graph
	}
	if err := encode(a.outW, a.config.Output, out); err != nil {
		return fmt.Errorf("failed to print object graph: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "documents", len(docs))
	return nil
}

// Events prints the write events of every configured document without
// materializing them.
func (a *App) Events(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	files, err := a.Files()
	if err != nil {
		return err
	}
	for i, file := range files {
		nodes, err := a.parse(ctx, file)
		if err != nil {
			return err
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(a.outW)
			}
			fmt.Fprintf(a.outW, "# %s\n", file)
		}
		if err := xamlnode.Dump(a.outW, nodes); err != nil {
			return fmt.Errorf("failed to print events of %s: %w", file, err)
		}
	}
	return nil
}

// Types prints every registered type with its members.
func (a *App) Types() error {
	for _, t := range a.schema.Types() {
		if _, err := fmt.Fprintf(a.outW, "%s (%s)\n", t, t.Kind()); err != nil {
			return err
		}
		for _, m := range t.Members() {
			var flags []string
			if m.IsConstructorArgument() {
				flags = append(flags, "ctor")
			}
			if m.IsReadOnly() {
				flags = append(flags, "readonly")
			}
			typeName := "any"
			if m.Type() != nil {
				typeName = m.Type().Name()
			}
			line := fmt.Sprintf("  %s: %s", m.Name(), typeName)
			if len(flags) > 0 {
				line += " [" + strings.Join(flags, ",") + "]"
			}
			if _, err := fmt.Fprintln(a.outW, line); err != nil {
				return err
			}
		}
	}
	return nil
}
