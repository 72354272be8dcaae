// Package analysis is the single entry point for turning a source file of
// any supported dialect into an outline.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/langdetect"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/texast"
	"github.com/yaklabco/texoutline/pkg/typst"
)

// Options configures an Analyzer.
type Options struct {
	// Dialect forces a dialect. Empty or DialectAuto detects it per file.
	Dialect Dialect

	// MaxDepth bounds LaTeX group nesting. Zero uses the lexer default.
	MaxDepth int

	// DetectLanguages guesses the language of code listings that do not
	// name one.
	DetectLanguages bool
}

// Result is the outcome of parsing one source.
type Result struct {
	Path    string
	Dialect Dialect

	// Document is the outline. A bibliography file has an empty outline.
	Document *document.Document

	// Info maps token positions to lines and yields diffable spans.
	Info Snapshot

	// Tokens holds the top-level LaTeX tokens; nil for other dialects.
	Tokens []texast.Token

	// Entries holds the bibliography entries found in the source.
	Entries []texast.BibEntry
}

// Analyzer parses sources into Results. It is safe for concurrent use.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	if opts.Dialect == "" {
		opts.Dialect = DialectAuto
	}
	return &Analyzer{opts: opts}
}

// ParseFile reads path and parses it. Read failures are returned as the
// fsutil errors, never as a ParseError.
func (a *Analyzer) ParseFile(ctx context.Context, path string) (*Result, error) {
	text, _, err := fsutil.ReadText(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.Parse(ctx, path, text)
}

// Parse parses content. path selects the dialect in auto mode and labels
// errors. Parse failures are returned as *ParseError.
func (a *Analyzer) Parse(ctx context.Context, path, content string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dialect := a.opts.Dialect
	if dialect == DialectAuto {
		dialect = DetectDialect(path, content)
	}

	switch dialect {
	case DialectTeX:
		return a.parseTeX(path, content)
	case DialectTypst:
		return a.parseTypst(path, content)
	case DialectBib:
		return parseBib(path, content), nil
	default:
		return nil, fmt.Errorf("parse %s: unknown dialect %q", path, dialect)
	}
}

func (a *Analyzer) documentOptions() []document.Option {
	if !a.opts.DetectLanguages {
		return nil
	}
	return []document.Option{
		document.WithLanguageDetector(langdetect.Detect),
		document.WithFileLanguages(langdetect.ForFile),
	}
}

func (a *Analyzer) parseTeX(path, content string) (*Result, error) {
	var lexOpts []lexer.Option
	if a.opts.MaxDepth > 0 {
		lexOpts = append(lexOpts, lexer.WithMaxDepth(a.opts.MaxDepth))
	}

	tokens, err := lexer.Scan(content, lexOpts...)
	if err != nil {
		return nil, texError(path, err)
	}

	doc, err := document.FromTokens(content, tokens, a.documentOptions()...)
	if err != nil {
		return nil, texError(path, err)
	}

	return &Result{
		Path:     path,
		Dialect:  DialectTeX,
		Document: doc,
		Info:     texast.NewTokenInfo(content, tokens),
		Tokens:   tokens,
		Entries:  inlineEntries(tokens),
	}, nil
}

func texError(path string, err error) *ParseError {
	return &ParseError{
		Path:        path,
		Dialect:     DialectTeX,
		Diagnostics: []texast.Diagnostic{texDiagnostic(err)},
		Err:         err,
	}
}

// inlineEntries collects entries written directly in a LaTeX source.
func inlineEntries(tokens []texast.Token) []texast.BibEntry {
	var entries []texast.BibEntry
	for i := range tokens {
		if tokens[i].Kind == texast.KindReference && tokens[i].Entry != nil {
			entries = append(entries, *tokens[i].Entry)
		}
	}
	return entries
}

func (a *Analyzer) parseTypst(path, content string) (*Result, error) {
	doc, snap, diags := typst.ParseDoc(content, a.documentOptions()...)
	if len(diags) > 0 {
		return nil, &ParseError{Path: path, Dialect: DialectTypst, Diagnostics: diags}
	}
	return &Result{
		Path:     path,
		Dialect:  DialectTypst,
		Document: doc,
		Info:     snap,
	}, nil
}

// parseBib never fails: malformed entries are skipped.
func parseBib(path, content string) *Result {
	entries, offsets := lexer.LocateEntries(content)
	return &Result{
		Path:     path,
		Dialect:  DialectBib,
		Document: document.NewBuilder().Finish(),
		Info:     newBibSnapshot(content, entries, offsets),
		Entries:  entries,
	}
}

// IsParseError reports whether err is a parse failure rather than an I/O
// or cancellation error.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
