package annotate

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightLines syntax-highlights source one line at a time,
// returning the per-line HTML fragments and the CSS for the token
// classes. The lexer is picked from the filename, falling back to the
// plain-text lexer.
func highlightLines(source, filename string) ([]string, string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, "", err
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)

	var css bytes.Buffer
	if err := formatter.WriteCSS(&css, style); err != nil {
		return nil, "", err
	}

	var lines []string
	for _, lineTokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, chroma.Literator(lineTokens...)); err != nil {
			return nil, "", err
		}
		lines = append(lines, strings.TrimRight(buf.String(), "\n"))
	}
	return lines, css.String(), nil
}
