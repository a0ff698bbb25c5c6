package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Phone is a single phonetic unit with its roundness score.
// Scored is false until the phone has been resolved against a score table.
type Phone struct {
	Symbol     string
	// StressMark is the stress digit written after the symbol in the dictionary, if any.
	StressMark string
	Score      float64
	Scored     bool
}

// SetScore attaches a roundness score to the phone.
func (p *Phone) SetScore(v float64) {
	p.Score = v
	p.Scored = true
}

// Syllable is a stress level plus the phones spoken under it.
type Syllable struct {
	Stress int
	Phones []*Phone
}

// Score returns the mean score of the syllable's phones. Unscored phones count as 0.
func (s *Syllable) Score() float64 {
	if len(s.Phones) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Phones {
		if p.Scored {
			sum += p.Score
		}
	}
	return sum / float64(len(s.Phones))
}

// Syllabification is the per-syllable pronunciation of one dictionary word.
type Syllabification struct {
	Word      string
	Syllables []*Syllable
}

// Dictionary maps a normalized word to its pronunciation.
type Dictionary map[string]*Syllabification

const (
	commentPrefix     = "##"
	wordSeparator     = "  "
	syllableSeparator = " - "
)

// rePhone captures the phone letters and an optional stress digit.
var rePhone = regexp.MustCompile(`([A-Za-z]+)(\d)?`)

// NewSyllabification parses a pronunciation such as "K AE1 - B".
// Tokens without letters are dropped. The last stress digit in a group wins.
func NewSyllabification(word, desc string) *Syllabification {
	s := &Syllabification{Word: word}
	for _, part := range strings.Split(desc, syllableSeparator) {
		syl := &Syllable{}
		for _, tok := range strings.Fields(part) {
			m := rePhone.FindStringSubmatch(tok)
			if m == nil {
				continue
			}
			if m[2] != "" {
				syl.Stress, _ = strconv.Atoi(m[2])
			}
			syl.Phones = append(syl.Phones, &Phone{Symbol: m[1], StressMark: m[2]})
		}
		s.Syllables = append(s.Syllables, syl)
	}
	return s
}

// String renders the pronunciation back into dictionary form.
// Dropped tokens are not restored.
func (s *Syllabification) String() string {
	groups := make([]string, 0, len(s.Syllables))
	for _, syl := range s.Syllables {
		toks := make([]string, len(syl.Phones))
		for i, p := range syl.Phones {
			toks[i] = p.Symbol + p.StressMark
		}
		groups = append(groups, strings.Join(toks, " "))
	}
	return strings.Join(groups, syllableSeparator)
}

// ParseLine splits a dictionary record into word and pronunciation.
// ok is false for comments, blank lines and lines without a two-space gap.
func ParseLine(line string) (word, desc string, ok bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return "", "", false
	}
	idx := strings.Index(line, wordSeparator)
	if idx == -1 {
		return "", "", false
	}
	return line[:idx], strings.TrimSpace(line[idx+len(wordSeparator):]), true
}

// Parse reads a syllabified pronunciation dictionary. Malformed lines are skipped;
// when a word appears more than once the last record wins.
func Parse(r io.Reader) (Dictionary, error) {
	dict := make(Dictionary)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		word, desc, ok := ParseLine(sc.Text())
		if !ok {
			continue
		}
		dict[word] = NewSyllabification(word, desc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return dict, nil
}

// Load reads the dictionary file at path.
func Load(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
