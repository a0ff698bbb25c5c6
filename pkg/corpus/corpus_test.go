package corpus

import (
	"strings"
	"testing"

	"github.com/japaniel/polycloud/pkg/dictionary"
	"github.com/japaniel/polycloud/pkg/scores"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Cab!", "CAB"},
		{"don't", "DONT"},
		{"(hello),", "HELLO"},
		{"route66", "ROUTE"},
		{"a-b_c~d", "ABCD"},
		{"[x]\\{y}|", "XY"},
		{"straße", "STRASSE"},
		{"ＣＡＢ", "ＣＡＢ"},
		{"①cab", "①CAB"},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.out {
			t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"CAB", "HELLO", "ABOUT", ""} {
		if got := Normalize(s); got != s {
			t.Errorf("Normalize(%q) = %q; want no-op", s, got)
		}
		if got := Normalize(Normalize("x" + s + "!")); got != Normalize("x"+s+"!") {
			t.Errorf("Normalize not idempotent for %q", s)
		}
	}
}

func testInputs(t *testing.T) (dictionary.Dictionary, scores.Table) {
	t.Helper()
	dict, err := dictionary.Parse(strings.NewReader("CAB  K AE1 - B\nA  AH0\n"))
	if err != nil {
		t.Fatalf("parse dict: %v", err)
	}
	table, err := scores.Parse(strings.NewReader("AA,0.8\nB,0.2\n"))
	if err != nil {
		t.Fatalf("parse scores: %v", err)
	}
	return dict, table
}

func TestStructureScenario(t *testing.T) {
	dict, table := testInputs(t)
	got := StructureText("Cab!", dict, table)
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("expected one line with one word, got %v", got)
	}
	cab := got[0][0]
	if cab.Word != "CAB" {
		t.Fatalf("word = %q", cab.Word)
	}
	k, ae, b := cab.Syllables[0].Phones[0], cab.Syllables[0].Phones[1], cab.Syllables[1].Phones[0]
	if !k.Scored || k.Score != 0 {
		t.Errorf("K score = %v (scored %v); want 0", k.Score, k.Scored)
	}
	if !ae.Scored || ae.Score != 0 {
		t.Errorf("AE score = %v (scored %v); want 0", ae.Score, ae.Scored)
	}
	if b.Score != 0.2 {
		t.Errorf("B score = %v; want 0.2", b.Score)
	}
}

func TestStructureDropsUnresolved(t *testing.T) {
	dict, table := testInputs(t)
	text := "a cab zebra CAB\nnothing here\n  cab  "
	got := StructureText(text, dict, table)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	wantLens := []int{3, 0, 1}
	for i, want := range wantLens {
		if len(got[i]) != want {
			t.Errorf("line %d has %d words; want %d", i, len(got[i]), want)
		}
	}
	if got[1] == nil {
		t.Error("empty line should be retained as an empty sequence")
	}
	if got.WordCount() != 4 {
		t.Errorf("WordCount = %d; want 4", got.WordCount())
	}
}

func TestStructureKeepsNonASCIIFormsUnresolved(t *testing.T) {
	dict, table := testInputs(t)
	got := StructureText("ＣＡＢ ①cab cab", dict, table)
	if len(got[0]) != 1 {
		t.Fatalf("expected only the ASCII token to resolve, got %d words", len(got[0]))
	}
}

func TestStructureSharesEntries(t *testing.T) {
	dict, table := testInputs(t)
	got := StructureText("cab CAB", dict, table)
	if got[0][0] != got[0][1] {
		t.Fatal("repeated words should reference the same syllabification")
	}
	if got[0][0] != dict["CAB"] {
		t.Fatal("structured corpus should reference dictionary entries")
	}
}

func TestStructureEmptyText(t *testing.T) {
	dict, table := testInputs(t)
	got := StructureText("", dict, table)
	if got.WordCount() != 0 {
		t.Fatalf("expected no words, got %d", got.WordCount())
	}
}

func TestWordCounts(t *testing.T) {
	dict, table := testInputs(t)
	got := StructureText("cab a\ncab", dict, table).WordCounts()
	want := []WordCount{
		{Word: "CAB", Pronunciation: "K AE1 - B", Count: 2},
		{Word: "A", Pronunciation: "AH0", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("WordCounts[%d] = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestReadText(t *testing.T) {
	got, err := ReadText(strings.NewReader("one\ntwo\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines := SplitLines(got); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
}
