package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-image-editor/pkg/editor"
)

func newFlattenCmd() *cobra.Command {
	f := &layerFlags{}
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Apply adjustments and a texture overlay locally without calling Gemini",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store := newCloudStorage()
			defer store.Close()
			loader, err := newLoader(store)
			if err != nil {
				return err
			}
			s, err := f.loadSession(ctx, loader)
			if err != nil {
				return err
			}
			comp, err := newCompositor()
			if err != nil {
				return err
			}

			flat, err := editor.Preview(ctx, comp, s)
			if err != nil {
				return err
			}
			if err := writeImage(ctx, cmd.OutOrStdout(), store, f.output, flat); err != nil {
				return err
			}
			slog.InfoContext(ctx, "合成画像を書き出しました", "path", f.output, "mime_type", flat.MimeType, "bytes", len(flat.Data))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}
