package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/blocks"
	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/texast"
)

type tokensFlags struct {
	dump     bool
	blocks   bool
	maxDepth int
}

func newTokensCommand() *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens <file.tex>",
		Short: "List the top-level tokens of a LaTeX file",
		Long: `Lex a LaTeX file and print its top-level tokens with their kind, byte
range and line.

Examples:
  texoutline tokens paper.tex           # Token table
  texoutline tokens --blocks paper.tex  # Environment tree
  texoutline tokens --dump paper.tex    # Full token tree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dump, "dump", false, "dump the full token tree")
	cmd.Flags().BoolVar(&flags.blocks, "blocks", false, "print the environment tree")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum group nesting (0 = default)")

	return cmd
}

func runTokens(cmd *cobra.Command, path string, flags *tokensFlags) error {
	if flags.dump && flags.blocks {
		return fmt.Errorf("%w: --dump and --blocks are mutually exclusive", ErrUsage)
	}

	cliCfg := &config.Config{MaxDepth: flags.maxDepth}
	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	src, _, err := fsutil.ReadText(commandContext(cmd), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))

	tokens, err := lexer.Scan(src, lexer.WithMaxDepth(cfg.EffectiveMaxDepth()))
	if err != nil {
		var lexErr *lexer.LexError
		if errors.As(err, &lexErr) {
			_, _ = io.WriteString(out, styles.FormatDiagnostics(path, []texast.Diagnostic{{
				Line:    lexErr.Line + 1,
				Message: lexErr.Message,
			}}, src))
		}
		return ErrParseFailures
	}

	switch {
	case flags.dump:
		_, err = io.WriteString(out, dumpTokens(tokens))
	case flags.blocks:
		nodes, buildErr := blocks.Build(src, tokens)
		var structErr *blocks.StructuralError
		if errors.As(buildErr, &structErr) {
			_, _ = io.WriteString(out, styles.FormatDiagnostics(path, []texast.Diagnostic{{
				Line:    structErr.Line + 1,
				Message: structErr.Kind.String(),
			}}, src))
			return ErrParseFailures
		}
		err = writeBlocks(out, src, nodes)
	default:
		table := pretty.NewTableFormatter(styles, terminalWidth())
		_, err = io.WriteString(out, table.FormatTokens(texast.NewTokenInfo(src, tokens)))
	}
	if err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

// dumpTokens renders tokens as Go literals.
func dumpTokens(tokens []texast.Token) string {
	opts := litter.Options{
		StripPackageNames: true,
		HideZeroValues:    true,
		HidePrivateFields: true,
	}
	return opts.Sdump(tokens) + "\n"
}

// writeBlocks prints environments indented by depth with their token
// index and line.
func writeBlocks(w io.Writer, src string, nodes []blocks.Node) error {
	lines := texast.BuildLines(src)

	var sb strings.Builder
	var visit func(nodes []blocks.Node, start, depth int)
	visit = func(nodes []blocks.Node, start, depth int) {
		blocks.Walk(nodes, start, func(node blocks.Node, index int) bool {
			if !node.IsBlock() {
				return false
			}
			line, _ := lines.LineAt(node.Block.Start.StartOffset)
			fmt.Fprintf(&sb, "%s%s  #%d :%d\n", strings.Repeat("  ", depth), node.Block.Name, index, line)
			visit(node.Block.Inner, index+1, depth+1)
			return false
		})
	}
	visit(nodes, 0, 0)

	if sb.Len() == 0 {
		sb.WriteString("(no environments)\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
