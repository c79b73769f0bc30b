package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newKBCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Feed the tenant knowledge base",
	}
	cmd.AddCommand(newKBUpsertCmd(opts))
	cmd.AddCommand(newKBUploadCmd(opts))
	return cmd
}

func newKBUpsertCmd(opts *rootOptions) *cobra.Command {
	var title, content, tags string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Add or update one inline item",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			item, err := a.services.KB.Upsert(cmd.Context(), title, content, tags)
			if err != nil {
				return widgetError("upsert knowledge", err)
			}
			return writeJSONLine(cmd, item)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Item title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Item content (required)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated tags")
	return cmd
}

func newKBUploadCmd(opts *rootOptions) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document (pdf, txt, csv, ...) for ingestion",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			defer f.Close()

			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])
			if err := a.services.KB.Upload(cmd.Context(), tags, name, f); err != nil {
				return widgetError("upload file", err)
			}
			return writeJSONLine(cmd, map[string]string{"status": "uploaded", "filename": name})
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated tags")
	return cmd
}
