package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-image-editor/pkg/config"
	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/editor"
	"github.com/shouni/gemini-image-editor/pkg/imgutil"
	"github.com/shouni/gemini-image-editor/pkg/session"
)

const shellHelp = `commands:
  load <ref>               load an image from a path, data URL, http(s) URL, gs:// or s3://
                           (only when no image is loaded)
  brightness <0-200>       set brightness percent
  contrast <0-200>         set contrast percent
  texture <name|none>      select dusty, paper, canvas or none
  opacity <0-100>          set texture opacity
  blend <mode>             overlay, multiply or screen
  prompt <text>            set the edit instruction
  preview                  flatten the current view and show its size
  apply                    send the flattened image and prompt to Gemini
  reset                    restore the original image and default adjustments
  new                      discard the session and start over
  save <path>              write the flattened view to a file, gs:// or s3://
  status                   show the session state
  help                     show this help
  quit                     exit`

var errQuit = errors.New("quit")

func newShellCmd(g *globalFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive editing session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			comp, err := newCompositor()
			if err != nil {
				return err
			}
			store := newCloudStorage()
			defer store.Close()
			loader, err := newLoader(store)
			if err != nil {
				return err
			}

			sh := &shell{
				sess:      session.New(),
				flattener: comp,
				loader:    loader,
				writer:    store,
				out:       cmd.OutOrStdout(),
			}
			sh.editor, err = newEditor(ctx, cfg, comp)
			if errors.Is(err, config.ErrMissingAPIKey) {
				slog.WarnContext(ctx, "APIキーが設定されていないため apply は利用できません", "env", config.EnvAPIKey)
			} else if err != nil {
				return err
			}

			if input != "" {
				if err := sh.exec(ctx, "load "+input); err != nil {
					return err
				}
			}
			return sh.run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Image to load on start (path, data URL, http(s) URL, gs:// or s3://)")
	return cmd
}

// shell は 1 つのセッションを行単位のコマンドで操作します。
type shell struct {
	sess      *session.Session
	flattener editor.Flattener
	editor    *editor.Editor // nil のとき apply は使えない
	loader    *imgutil.Loader
	writer    remoteio.OutputWriter
	out       io.Writer
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(sh.out, "> ")
	for scanner.Scan() {
		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		fmt.Fprint(sh.out, "> ")
	}
	return scanner.Err()
}

func (sh *shell) exec(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "":
		return nil
	case "load":
		img, err := sh.loader.Load(ctx, arg)
		if err != nil {
			return err
		}
		if err := sh.sess.Load(img); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "loaded %s (%s, %d bytes)\n", arg, img.MimeType, len(img.Data))
	case "brightness":
		return withInt(arg, sh.sess.SetBrightness)
	case "contrast":
		return withInt(arg, sh.sess.SetContrast)
	case "opacity":
		return withInt(arg, sh.sess.SetOpacity)
	case "texture":
		if strings.EqualFold(arg, "none") {
			return sh.sess.SetTexture(nil)
		}
		tex, err := domain.ParseTexture(arg)
		if err != nil {
			return err
		}
		return sh.sess.SetTexture(&tex)
	case "blend":
		mode, err := domain.ParseBlendMode(arg)
		if err != nil {
			return err
		}
		return sh.sess.SetBlendMode(mode)
	case "prompt":
		return sh.sess.SetPrompt(arg)
	case "preview":
		img, err := editor.Preview(ctx, sh.flattener, sh.sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "preview: %s, %d bytes\n", img.MimeType, len(img.Data))
	case "apply":
		return sh.apply(ctx)
	case "reset":
		return sh.sess.Reset()
	case "new":
		return sh.sess.NewImage()
	case "save":
		if arg == "" {
			return fmt.Errorf("usage: save <path>")
		}
		img, err := editor.Preview(ctx, sh.flattener, sh.sess)
		if err != nil {
			return err
		}
		if err := writeImage(ctx, sh.out, sh.writer, arg, img); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "saved %s\n", arg)
	case "status":
		sh.printStatus()
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
	return nil
}

func (sh *shell) apply(ctx context.Context) error {
	if sh.editor == nil {
		return config.ErrMissingAPIKey
	}
	err := sh.editor.ApplyEdit(ctx, sh.sess)
	v := sh.sess.Snapshot()
	switch {
	case errors.Is(err, session.ErrNoImage), errors.Is(err, session.ErrEmptyPrompt), errors.Is(err, session.ErrBusy):
		return err
	case err == nil:
		fmt.Fprintln(sh.out, v.LastMessage)
		return nil
	case v.LastError != "":
		// 拒否や失敗はセッションに記録済みのメッセージを表示する
		fmt.Fprintf(sh.out, "error: %s\n", v.LastError)
		return nil
	default:
		return err
	}
}

func (sh *shell) printStatus() {
	v := sh.sess.Snapshot()
	fmt.Fprintf(sh.out, "session:    %s\n", v.ID)
	fmt.Fprintf(sh.out, "state:      %s\n", v.State)
	if v.HasImage() {
		fmt.Fprintf(sh.out, "image:      %s, %d bytes\n", v.Current.MimeType, len(v.Current.Data))
	}
	fmt.Fprintf(sh.out, "brightness: %d%%\n", v.Adjustments.Brightness)
	fmt.Fprintf(sh.out, "contrast:   %d%%\n", v.Adjustments.Contrast)
	if v.Overlay != nil {
		fmt.Fprintf(sh.out, "texture:    %s (%d%%, %s)\n", v.Overlay.Texture, v.Overlay.Opacity, v.Overlay.BlendMode)
	} else {
		fmt.Fprintln(sh.out, "texture:    none")
	}
	fmt.Fprintf(sh.out, "prompt:     %q\n", v.Prompt)
	if v.LastMessage != "" {
		fmt.Fprintf(sh.out, "message:    %s\n", v.LastMessage)
	}
	if v.LastError != "" {
		fmt.Fprintf(sh.out, "error:      %s\n", v.LastError)
	}
}

func withInt(arg string, set func(int) error) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid number %q", arg)
	}
	return set(n)
}
