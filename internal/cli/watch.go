package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/session"
)

type watchFlags struct {
	once    bool
	noBib   bool
	baseDir string
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Keep the outline of a file up to date as it is edited",
		Long: `Watch a LaTeX or Typst file and print its outline after every change,
followed by the section and reference differences against the previous
revision. A revision that fails to parse is reported and the last good
outline is kept. The bibliography the document names is loaded in the
background and reported when it arrives.

Examples:
  texoutline watch paper.tex            # Watch until interrupted
  texoutline watch --no-bib paper.typ   # Skip bibliography resolution
  texoutline watch --once paper.tex     # Print one outline and exit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.once, "once", false, "exit after the first outline")
	cmd.Flags().BoolVar(&flags.noBib, "no-bib", false, "do not resolve the bibliography")
	cmd.Flags().StringVar(&flags.baseDir, "base-dir", "", "directory bibliography names resolve against")

	return cmd
}

func runWatch(cmd *cobra.Command, file string, flags *watchFlags) error {
	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	logger := logging.Default()
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(logging.WithFields(logging.WithLogger(ctx, logger), logging.FieldPath, file))
	defer cancel()

	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	text, info, err := fsutil.ReadText(ctx, path)
	if err != nil {
		return err
	}

	baseDir := ""
	if !flags.noBib && cfg.ResolveBibliography() {
		baseDir = lo.CoalesceOrEmpty(flags.baseDir, cfg.Bibliography.BaseDir, filepath.Dir(path))
	}

	sess := session.New(session.Options{
		Path:     path,
		BaseDir:  baseDir,
		Analyzer: newAnalyzer(cfg),
	})

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return sess.Run(gctx) })

	if err := sess.Submit(gctx, session.TextInitialized(text)); err != nil {
		cancel()
		_ = group.Wait()
		return err
	}

	if !flags.once {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			cancel()
			_ = group.Wait()
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			_ = watcher.Close()
			cancel()
			_ = group.Wait()
			return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
		}
		logger.Info("watching", logging.FieldPath, file)
		group.Go(func() error {
			defer watcher.Close()
			return watchFile(gctx, watcher, path, info, sess)
		})
	}

	printer := &updatePrinter{
		out:    cmd.OutOrStdout(),
		path:   file,
		cfg:    cfg,
		styles: pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, cmd.OutOrStdout())),
	}
	group.Go(func() error {
		for update := range sess.Updates() {
			if err := printer.print(update); err != nil {
				return err
			}
			if flags.once && update.Kind == session.UpdateOutline {
				cancel()
			}
		}
		return nil
	})

	err = group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if flags.once && printer.failed {
		return ErrParseFailures
	}
	return nil
}

// watchFile forwards real edits of path to the session. Editors that save
// by rename produce Create events, so the directory is watched.
func watchFile(ctx context.Context, watcher *fsnotify.Watcher, path string, info *fsutil.FileInfo, sess *session.Session) error {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			changed, err := fsutil.Changed(ctx, info)
			if err != nil || !changed {
				continue
			}
			text, newInfo, err := fsutil.ReadText(ctx, path)
			if err != nil {
				logger.Debug("file not readable yet", logging.FieldPath, path, logging.FieldError, err)
				continue
			}
			info = newInfo

			if err := sess.Submit(ctx, session.TextChanged(text)); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)
		}
	}
}

// updatePrinter renders session updates. It is only used from one goroutine.
type updatePrinter struct {
	out     io.Writer
	path    string
	cfg     *config.Config
	styles  *pretty.Styles
	printed bool

	// failed is set when the latest outline update carried an error.
	failed bool
}

func (p *updatePrinter) print(update session.Update) error {
	var text string

	switch update.Kind {
	case session.UpdateOutline:
		text = p.outline(update)
	case session.UpdateBibliography:
		text = p.bibliography(update)
	}

	_, err := io.WriteString(p.out, text)
	return err
}

func (p *updatePrinter) outline(update session.Update) string {
	p.failed = update.Err != nil
	if update.Err != nil {
		var parseErr *analysis.ParseError
		if !errors.As(update.Err, &parseErr) {
			return p.styles.Failure.Render(update.Err.Error()) + "\n"
		}
		text := p.styles.FormatDiagnostics(p.path, parseErr.Diagnostics, "")
		if update.Document != nil {
			text += p.styles.Dim.Render("keeping the last good outline") + "\n"
		}
		return text
	}

	if update.Unchanged {
		return p.styles.Dim.Render("outline unchanged") + "\n"
	}

	text := p.styles.FormatOutline(p.path, update.Document, pretty.OutlineOptions{
		Objects: objectKinds(p.cfg.Outline.Objects),
		Lines:   p.cfg.Outline.Lines,
	})
	if p.printed {
		if len(update.Sections) > 0 {
			text += p.styles.FormatDifferences("sections", update.Sections)
		}
		if len(update.References) > 0 {
			text += p.styles.FormatDifferences("references", update.References)
		}
	}
	p.printed = true
	return text
}

func (p *updatePrinter) bibliography(update session.Update) string {
	if update.Err != nil {
		return p.styles.Failure.Render(fmt.Sprintf("bibliography %s: %v", update.Bibliography, update.Err)) + "\n"
	}

	text := p.styles.FormatFileHeader(update.Bibliography, fmt.Sprintf("%d entries", len(update.Entries))) + "\n"
	if p.cfg.Outline.Entries && len(update.Entries) > 0 {
		text += pretty.NewTableFormatter(p.styles, terminalWidth()).FormatEntries(update.Entries)
	}
	return text
}
