package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"rokuserve/internal/feed"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the published feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfg.Paths.FeedPath)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no published feed at %s (run `rokuserve build` first)", cfg.Paths.FeedPath)
				}
				return fmt.Errorf("read feed: %w", err)
			}

			doc, err := feed.ParseDocument(data)
			if err != nil {
				return fmt.Errorf("parse feed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) — %d items, built %s\n",
				doc.ProviderName, doc.Language, doc.ItemCount(),
				doc.LastUpdated.Format(time.RFC3339))
			fmt.Fprintln(out, renderFeedTable(doc))
			return nil
		},
	}
}

func renderFeedTable(doc *feed.Document) string {
	tw := table.NewWriter()
	if stdoutIsTerminal() {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	tw.AppendHeader(table.Row{"Group", "ID", "Title", "Released", "Duration"})
	for _, group := range doc.Groups {
		for _, item := range group.Items {
			duration := (time.Duration(item.Content.Duration) * time.Second).String()
			tw.AppendRow(table.Row{group.Label, item.ID, item.Title, item.ReleaseDate, duration})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
