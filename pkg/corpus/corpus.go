// Package corpus turns raw text into lines of resolved pronunciations.
package corpus

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/japaniel/polycloud/pkg/dictionary"
	"github.com/japaniel/polycloud/pkg/scores"
)

// Line is the resolvable words of one text line, in order.
type Line []*dictionary.Syllabification

// Structured is a corpus after dictionary resolution. Lines map 1:1 to input lines.
type Structured []Line

// WordCount is the number of times a resolved word occurs in a corpus.
type WordCount struct {
	Word          string
	Pronunciation string
	Count         int
}

// rePunct matches the ASCII punctuation and digits stripped from tokens.
var rePunct = regexp.MustCompile("[!\"#$%&'()*+,\\-./0-9:;<=>?@\\[\\\\\\]^_`{|}~]")

// Normalize upper-cases a token with full Unicode case mapping (ß becomes SS)
// and strips ASCII punctuation and digits.
func Normalize(token string) string {
	// A Caser keeps state, so each call gets its own.
	s := cases.Upper(language.Und).String(token)
	return rePunct.ReplaceAllString(s, "")
}

// SplitLines splits text into lines after trimming surrounding whitespace.
// Empty text yields a single empty line.
func SplitLines(text string) []string {
	text = strings.TrimSpace(text)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Structure resolves every token of every line against dict.
// Unresolved tokens are dropped. Resolved words have their phone scores set from table;
// a word shared across occurrences is the same *Syllabification and is re-scored in place.
func Structure(lines []string, dict dictionary.Dictionary, table scores.Table) Structured {
	out := make(Structured, 0, len(lines))
	for _, l := range lines {
		line := Line{}
		for _, tok := range strings.Fields(l) {
			syl, ok := dict[Normalize(tok)]
			if !ok {
				continue
			}
			for _, s := range syl.Syllables {
				for _, p := range s.Phones {
					p.SetScore(table.Lookup(p.Symbol))
				}
			}
			line = append(line, syl)
		}
		out = append(out, line)
	}
	return out
}

// StructureText is Structure over the lines of text.
func StructureText(text string, dict dictionary.Dictionary, table scores.Table) Structured {
	return Structure(SplitLines(text), dict, table)
}

// ReadText reads a whole plain-text corpus.
func ReadText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WordCount returns the number of resolved words across all lines.
func (s Structured) WordCount() int {
	n := 0
	for _, l := range s {
		n += len(l)
	}
	return n
}

// WordCounts summarizes occurrences per distinct word in first-seen order.
func (s Structured) WordCounts() []WordCount {
	index := make(map[string]int)
	var out []WordCount
	for _, l := range s {
		for _, w := range l {
			if i, ok := index[w.Word]; ok {
				out[i].Count++
				continue
			}
			index[w.Word] = len(out)
			out = append(out, WordCount{Word: w.Word, Pronunciation: w.String(), Count: 1})
		}
	}
	return out
}
