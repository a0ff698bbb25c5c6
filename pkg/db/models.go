package db

import "time"

// Word is a distinct dictionary word seen in any render.
type Word struct {
	ID            int64
	Word          string
	Pronunciation string
}

// Render is one archived output document.
type Render struct {
	ID        string
	Title     string
	Source    string
	SVG       string
	LineCount int
	WordCount int
	CreatedAt time.Time
}

// RenderWord links a Word with a Render and holds its occurrence count.
type RenderWord struct {
	Word
	OccurrenceCount int
}

// WordOccurrence is the input for SaveRender: one word and how often it occurred.
type WordOccurrence struct {
	Word          string
	Pronunciation string
	Count         int
}
