// Package render lays out a structured corpus as an SVG document, one
// polycloud per syllable.
package render

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/japaniel/polycloud/pkg/corpus"
	"github.com/japaniel/polycloud/pkg/dictionary"
	"github.com/japaniel/polycloud/pkg/polycloud"
)

// Layout holds the page geometry. Content beyond the page is not clipped.
type Layout struct {
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	MarginX          float64 `yaml:"margin_x"`
	MarginY          float64 `yaml:"margin_y"`
	LineAdvance      float64 `yaml:"line_advance"`
	WordGap          float64 `yaml:"word_gap"`
	SyllableGap      float64 `yaml:"syllable_gap"`
	SyllableBaseline float64 `yaml:"syllable_baseline"`
}

// DefaultLayout is a US Letter page in points.
func DefaultLayout() Layout {
	return Layout{
		Width:            612,
		Height:           792,
		MarginX:          10,
		MarginY:          20,
		LineAdvance:      60,
		WordGap:          20,
		SyllableGap:      10,
		SyllableBaseline: 15,
	}
}

// Renderer converts structured corpora to SVG.
type Renderer struct {
	Layout Layout
	// Workers > 1 renders words concurrently. Output does not depend on it.
	Workers int
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// NewRenderer creates a Renderer with the default layout.
func NewRenderer() *Renderer {
	return &Renderer{
		Layout:  DefaultLayout(),
		Workers: 4,
	}
}

// SyllableSize returns the horizontal and vertical scale of a syllable's shape.
func SyllableSize(s *dictionary.Syllable) (length, height float64) {
	return 5 + 2*float64(len(s.Phones)), 5 + 5*float64(s.Stress)
}

// Syllable renders one syllable and returns its markup and horizontal footprint.
func (r *Renderer) Syllable(s *dictionary.Syllable) (string, float64) {
	length, height := SyllableSize(s)
	path := polycloud.New(3*len(s.Phones), s.Score())
	svg := fmt.Sprintf(`<g transform="scale(%s,%s)"><path d="%s" fill="none" stroke="black"/></g>`,
		num(length), num(height), path.D())
	return svg, 3 * length
}

// Word renders the syllables of w left to right and returns the markup and footprint.
// The first syllable starts one syllable gap in; the trailing gap is not counted.
func (r *Renderer) Word(w *dictionary.Syllabification) (string, float64) {
	gap := r.Layout.SyllableGap
	var sb strings.Builder
	wordLen := gap
	for _, syl := range w.Syllables {
		sylSVG, sylLen := r.Syllable(syl)
		fmt.Fprintf(&sb, `<g transform="translate(%s,%s)">%s</g>`, num(wordLen), num(r.Layout.SyllableBaseline), sylSVG)
		wordLen += sylLen + gap
	}
	wordLen -= gap
	return sb.String(), wordLen
}

type fragment struct {
	svg   string
	width float64
}

// Corpus renders the whole corpus as a single SVG document.
func (r *Renderer) Corpus(ctx context.Context, c corpus.Structured) (string, error) {
	frags, err := r.words(ctx, c)
	if err != nil {
		return "", err
	}

	l := r.Layout
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`, num(l.Width), num(l.Height))
	x, y := l.MarginX, l.MarginY
	i, below := 0, 0
	for _, line := range c {
		if y > l.Height {
			below++
		}
		for range line {
			f := frags[i]
			i++
			fmt.Fprintf(&sb, `<g transform="translate(%s,%s)">%s</g>`, num(x), num(y), f.svg)
			x += f.width + l.WordGap
		}
		y += l.LineAdvance
		x = l.MarginX
	}
	sb.WriteString("</svg>")

	if r.Logger != nil {
		if below > 0 {
			r.Logger.Printf("Warning: %d lines start below the %s unit page height", below, num(l.Height))
		}
		r.Logger.Printf("Rendered %d words on %d lines", len(frags), len(c))
	}
	return sb.String(), nil
}

// Write renders c and writes the document to w.
func (r *Renderer) Write(ctx context.Context, w io.Writer, c corpus.Structured) error {
	svg, err := r.Corpus(ctx, c)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}

// words renders every word fragment in corpus order.
func (r *Renderer) words(ctx context.Context, c corpus.Structured) ([]fragment, error) {
	var all []*dictionary.Syllabification
	for _, line := range c {
		all = append(all, line...)
	}
	frags := make([]fragment, len(all))

	if r.Workers <= 1 || len(all) < 2 {
		for i, w := range all {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			frags[i].svg, frags[i].width = r.Word(w)
		}
		return frags, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp := NewWorkerPool(r.Workers, r.Workers*2)
	wp.Start(ctx)
	for i, w := range all {
		idx, word := i, w
		err := wp.SubmitCtx(ctx, func(ctx context.Context) error {
			frags[idx].svg, frags[idx].width = r.Word(word)
			return nil
		})
		if err != nil {
			wp.Close()
			return nil, err
		}
	}
	if err := wp.Close(); err != nil {
		return nil, err
	}
	// Workers exit early on cancellation, leaving fragments unset.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frags, nil
}

func num(v float64) string {
	return polycloud.FormatNumber(v)
}
