package document

import (
	"strings"

	"github.com/yaklabco/texoutline/pkg/blocks"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// Options configures outline extraction.
type Options struct {
	// DetectLanguage guesses the language of a code object that does not
	// declare one. Nil leaves the language empty.
	DetectLanguage func(content string) string

	// LanguageForFile guesses the language of an included listing file.
	LanguageForFile func(name string) string
}

// Option configures outline extraction.
type Option func(*Options)

// WithLanguageDetector sets Options.DetectLanguage.
func WithLanguageDetector(detect func(content string) string) Option {
	return func(o *Options) {
		o.DetectLanguage = detect
	}
}

// WithFileLanguages sets Options.LanguageForFile.
func WithFileLanguages(forFile func(name string) string) Option {
	return func(o *Options) {
		o.LanguageForFile = forFile
	}
}

// ApplyOptions folds opts into an Options value.
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// objectEnvironments maps environment names to the object they produce.
// Object environments are not descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var objectEnvironments = map[string]ObjectKind{
	"table":       ObjectTable,
	"table*":      ObjectTable,
	"tabular":     ObjectTable,
	"tabular*":    ObjectTable,
	"tabularx":    ObjectTable,
	"longtable":   ObjectTable,
	"equation":    ObjectEquation,
	"equation*":   ObjectEquation,
	"align":       ObjectEquation,
	"align*":      ObjectEquation,
	"gather":      ObjectEquation,
	"gather*":     ObjectEquation,
	"multline":    ObjectEquation,
	"multline*":   ObjectEquation,
	"displaymath": ObjectEquation,
	"lstlisting":  ObjectCode,
	"verbatim":    ObjectCode,
	"minted":      ObjectCode,
}

// FromTokens builds the outline of a LaTeX source from its top-level
// tokens. The source must contain exactly one document environment; only
// its content contributes to the outline.
func FromTokens(src string, tokens []texast.Token, opts ...Option) (*Document, error) {
	nodes, err := blocks.Build(src, tokens)
	if err != nil {
		return nil, err
	}

	body, start, err := documentBody(nodes)
	if err != nil {
		return nil, err
	}

	w := &texWalker{
		src:     src,
		lines:   texast.BuildLines(src),
		builder: NewBuilder(),
		opts:    ApplyOptions(opts...),
	}
	if err := w.walk(body.Inner, start+1); err != nil {
		return nil, err
	}

	return w.builder.Finish(), nil
}

func documentBody(nodes []blocks.Node) (*blocks.Block, int, error) {
	var (
		body  *blocks.Block
		start int
		idx   int
	)
	for _, node := range nodes {
		if node.IsBlock() && node.Block.Name == "document" {
			if body != nil {
				return nil, 0, ErrMultipleDocumentBodies
			}
			body, start = node.Block, idx
		}
		idx += node.TokenCount()
	}
	if body == nil {
		return nil, 0, ErrMissingDocumentBody
	}
	return body, start, nil
}

type texWalker struct {
	src     string
	lines   texast.Lines
	builder *Builder
	opts    Options

	// created lists objects in creation order, for caption attachment.
	created []*Object
}

func (w *texWalker) walk(nodes []blocks.Node, idx int) error {
	for _, node := range nodes {
		var err error
		if node.IsBlock() {
			err = w.block(node.Block, idx)
		} else {
			err = w.token(node.Token, idx)
		}
		if err != nil {
			return err
		}
		idx += node.TokenCount()
	}
	return nil
}

func (w *texWalker) line(offset int) int {
	line, _ := w.lines.LineAt(offset)
	return line
}

func (w *texWalker) token(tok *texast.Token, idx int) error {
	line := w.line(tok.StartOffset)

	if tok.Kind == texast.KindMath && tok.Math == texast.MathDouble {
		w.add(Object{Kind: ObjectEquation}, idx, line)
		return nil
	}
	if tok.Kind != texast.KindCommand {
		return nil
	}

	cmd := tok.Command
	switch cmd.Name {
	case "section", "section*":
		return w.builder.Section(w.argument(cmd.Argument), idx, line)
	case "subsection", "subsection*":
		return w.builder.Subsection(w.argument(cmd.Argument), idx, line)
	case "includegraphics":
		w.add(Object{Kind: ObjectImage, File: w.argument(cmd.Argument)}, idx, line)
	case "bibliography", "addbibresource":
		w.add(Object{Kind: ObjectBibliography, File: w.argument(cmd.Argument)}, idx, line)
	case "lstinputlisting":
		file := w.argument(cmd.Argument)
		lang := optionLanguage(cmd.Options)
		if lang == "" && w.opts.LanguageForFile != nil {
			lang = w.opts.LanguageForFile(file)
		}
		w.add(Object{Kind: ObjectCode, File: file, Language: lang}, idx, line)
	case "inputminted":
		w.add(Object{
			Kind:     ObjectCode,
			File:     w.argument(cmd.ExtraArgument),
			Language: w.argument(cmd.Argument),
		}, idx, line)
	}
	return nil
}

func (w *texWalker) block(block *blocks.Block, idx int) error {
	kind, isObject := objectEnvironments[block.Name]
	if isObject {
		obj := Object{Kind: kind}
		obj.Caption, obj.Label = w.annotations(block.Inner, true)
		if kind == ObjectCode {
			obj.Language = w.language(block)
		}
		w.add(obj, idx, w.line(block.Start.StartOffset))
		return nil
	}

	before := len(w.created)
	if err := w.walk(block.Inner, idx+1); err != nil {
		return err
	}

	// A caption or label placed directly in a float describes the first
	// object inside it.
	if len(w.created) > before {
		caption, label := w.annotations(block.Inner, false)
		obj := w.created[before]
		if obj.Caption == "" {
			obj.Caption = caption
		}
		if obj.Label == "" {
			obj.Label = label
		}
	}
	return nil
}

func (w *texWalker) add(obj Object, idx, line int) {
	w.created = append(w.created, w.builder.Object(obj, idx, line))
}

// annotations returns the first \caption and \label among nodes, searching
// nested blocks when deep is set.
func (w *texWalker) annotations(nodes []blocks.Node, deep bool) (string, string) {
	var caption, label string
	blocks.Walk(nodes, 0, func(node blocks.Node, _ int) bool {
		if node.IsBlock() {
			return deep
		}
		switch {
		case caption == "" && node.Token.IsCommand("caption"):
			caption = w.argument(node.Token.Command.Argument)
		case label == "" && node.Token.IsCommand("label"):
			label = w.argument(node.Token.Command.Argument)
		}
		return true
	})
	return caption, label
}

// argument returns the trimmed argument text as a copy that does not
// alias the source.
func (w *texWalker) argument(arg *texast.Argument) string {
	return strings.Clone(strings.TrimSpace(arg.String(w.src)))
}

// language finds the declared language of a code environment, falling back
// to content detection.
func (w *texWalker) language(block *blocks.Block) string {
	cmd := block.Start.Command
	if block.Name == "minted" && cmd.ExtraArgument != nil {
		return w.argument(cmd.ExtraArgument)
	}
	if lang := optionLanguage(cmd.Options); lang != "" {
		return lang
	}
	if w.opts.DetectLanguage != nil {
		return w.opts.DetectLanguage(block.Content(w.src))
	}
	return ""
}

// optionLanguage returns the value of a language=... option.
func optionLanguage(opts []string) string {
	for _, opt := range opts {
		key, value, ok := strings.Cut(opt, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "language") {
			return strings.Clone(strings.Trim(strings.TrimSpace(value), "{}"))
		}
	}
	return ""
}
