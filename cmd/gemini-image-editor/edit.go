package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newEditCmd(g *globalFlags) *cobra.Command {
	f := &layerFlags{}
	var prompt string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Flatten the image and apply a Gemini edit described by a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
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
			if err := s.SetPrompt(prompt); err != nil {
				return err
			}

			comp, err := newCompositor()
			if err != nil {
				return err
			}
			ed, err := newEditor(ctx, cfg, comp)
			if err != nil {
				return err
			}

			if err := ed.ApplyEdit(ctx, s); err != nil {
				return err
			}

			v := s.Snapshot()
			if err := writeImage(ctx, cmd.OutOrStdout(), store, f.output, v.Current); err != nil {
				return err
			}
			slog.InfoContext(ctx, "編集結果を書き出しました", "session_id", v.ID, "path", f.output, "mime_type", v.Current.MimeType)
			fmt.Fprintln(cmd.ErrOrStderr(), v.LastMessage)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Natural-language edit instruction")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
