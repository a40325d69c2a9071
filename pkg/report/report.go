// Package report renders evaluation results for people and machines.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
	"github.com/macropower/compass/pkg/yaml"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")

	AllFormats = []string{
		string(FormatTable),
		string(FormatYAML),
		string(FormatJSON),
	}
)

// ParseFormat returns the [Format] named by s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !slices.Contains(AllFormats, string(f)) {
		return "", fmt.Errorf("%w %q, expected one of %v", ErrUnknownFormat, s, AllFormats)
	}

	return f, nil
}

// Document is the serialized form of an evaluation.
type Document struct {
	Standard standard.Standard `json:"standard"`
	Results  rule.Results      `json:"results"`
}

// Marshal encodes v in f. Map keys are sorted, so equal values encode to
// equal bytes. [FormatTable] is not a serialization format.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}

		return append(b, '\n'), nil

	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}

		return b, nil

	case FormatTable:
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Renderer writes evaluations in a [Format].
type Renderer struct {
	styles       Styles
	format       Format
	detailsWidth int
	color        bool
}

// RendererOpt configures a [Renderer].
type RendererOpt func(*Renderer)

// WithColor enables terminal colors and syntax highlighting.
func WithColor(color bool) RendererOpt {
	return func(r *Renderer) {
		r.color = color
	}
}

// WithStyles replaces the [DefaultStyles].
func WithStyles(s Styles) RendererOpt {
	return func(r *Renderer) {
		r.styles = s
	}
}

// WithDetailsWidth truncates table details to n cells. Zero keeps them whole.
func WithDetailsWidth(n int) RendererOpt {
	return func(r *Renderer) {
		r.detailsWidth = n
	}
}

// NewRenderer creates a [Renderer] for f.
func NewRenderer(f Format, opts ...RendererOpt) *Renderer {
	r := &Renderer{
		format: f,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render writes the results of evaluating md against std to w.
func (r *Renderer) Render(w io.Writer, md *metadata.Dataset, std standard.Standard, results rule.Results) error {
	var out []byte

	switch r.format {
	case FormatTable:
		out = []byte(r.table(md, std, results))

	case FormatJSON, FormatYAML:
		b, err := Marshal(Document{Standard: std, Results: results}, r.format)
		if err != nil {
			return err
		}

		out = b
		if r.color {
			out, err = Highlight(b, r.format)
			if err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, r.format)
	}

	_, err := w.Write(out)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Summary describes an evaluation in one line.
func Summary(md *metadata.Dataset, std standard.Standard, results rule.Results) string {
	passed := len(results) - len(results.Failed())

	return fmt.Sprintf("%s: %s rows, %s columns, %d/%d checks passed",
		std,
		humanize.Comma(int64(md.TotalRows)),
		humanize.Comma(int64(md.Columns.Len())),
		passed, len(results),
	)
}

func (r *Renderer) details(s string) string {
	if r.detailsWidth <= 0 {
		return s
	}

	return ansi.Truncate(s, r.detailsWidth, "…")
}

func (r *Renderer) table(md *metadata.Dataset, std standard.Standard, results rule.Results) string {
	s := r.styles
	if !r.color {
		s = Styles{}
	}

	keys := results.Keys()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers("CHECK", "SCORE", "WEIGHT", "PASSED", "DETAILS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			if col == 3 {
				if results[keys[row]].Passed {
					return s.Pass
				}

				return s.Fail
			}

			return s.Cell
		})

	for _, k := range keys {
		res := results[k]
		t.Row(
			k,
			strconv.FormatFloat(res.Score, 'f', -1, 64),
			strconv.Itoa(res.Weight),
			mark(res.Passed),
			r.details(res.Details),
		)
	}

	var b bytes.Buffer
	b.WriteString(s.Title.Render(Summary(md, std, results)))
	b.WriteByte('\n')
	b.WriteString(t.String())
	b.WriteByte('\n')

	return b.String()
}

func mark(passed bool) string {
	if passed {
		return "yes"
	}

	return "no"
}
