// Package scores builds the phoneme roundness table.
package scores

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Table maps a phoneme symbol to its roundness score.
// Unparsable scores are stored as NaN.
type Table map[string]float64

// Lookup returns the score for phone, or 0 when the phone is absent or its score is not a number.
func (t Table) Lookup(phone string) float64 {
	v, ok := t[phone]
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// Parse reads "PHONEME,SCORE" records. Later duplicates overwrite earlier ones.
func Parse(r io.Reader) (Table, error) {
	table := make(Table)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		score := math.NaN()
		if len(fields) > 1 {
			score = leadingFloat(fields[1])
		}
		table[fields[0]] = score
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read score table: %w", err)
	}
	return table, nil
}

// reNumber matches a decimal number at the start of a field.
var reNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// leadingFloat parses the numeric prefix of s, so "0.7 front" is 0.7.
// It returns NaN when s does not start with a number.
func leadingFloat(s string) float64 {
	m := reNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Load reads the score table file at path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

//go:embed roundness.csv
var defaultRoundness string

// Default returns the built-in ARPAbet roundness table.
// Vowels are split into front (0.49) and non-front (0.70); consonants are scored by place and voicing.
func Default() Table {
	t, _ := Parse(strings.NewReader(defaultRoundness))
	return t
}
