package report

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// ChromaStyle is the chroma style used by [Highlight].
var ChromaStyle = "monokai"

// Highlight applies terminal syntax highlighting to data encoded in f.
// The formatter follows the color profile of the terminal, so data is
// returned unchanged when colors are unsupported.
func Highlight(data []byte, f Format) ([]byte, error) {
	lexer := lexers.Get(string(f))
	if lexer == nil {
		return data, nil
	}

	formatter := formatters.Get(formatterName(termenv.ColorProfile()))
	if formatter == nil {
		return data, nil
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, string(data))
	if err != nil {
		return nil, fmt.Errorf("lexer tokenize: %w", err)
	}

	var buf bytes.Buffer

	err = formatter.Format(&buf, styles.Get(ChromaStyle), iterator)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}

	return buf.Bytes(), nil
}

func formatterName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal8"
	case termenv.Ascii:
	}

	return "noop"
}
