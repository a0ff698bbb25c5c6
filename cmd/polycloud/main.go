package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/japaniel/polycloud/pkg/config"
	"github.com/japaniel/polycloud/pkg/corpus"
	"github.com/japaniel/polycloud/pkg/db"
	"github.com/japaniel/polycloud/pkg/dictionary"
	"github.com/japaniel/polycloud/pkg/render"
	"github.com/japaniel/polycloud/pkg/scores"
)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config (default: ./polycloud.yaml)")
	scoresFlag := flag.String("scores", "", "Path to PHONEME,SCORE CSV (default: built-in roundness table)")
	dictFlag := flag.String("dict", "", "Path to syllabified pronunciation dictionary")
	dictURLFlag := flag.String("dict-url", "", "URL to download the dictionary from when it is missing")
	corpusFlag := flag.String("corpus", "", "Path to plain-text corpus")
	urlFlag := flag.String("url", "", "Web page to use as the corpus instead of -corpus")
	outFlag := flag.String("o", "", "Output SVG path")
	dbFlag := flag.String("db", "", "Path to SQLite archive (optional)")
	titleFlag := flag.String("title", "", "Title recorded in the archive")
	workersFlag := flag.Int("workers", 0, "Number of render workers")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	overrideString(&cfg.Scores, *scoresFlag)
	overrideString(&cfg.Dictionary, *dictFlag)
	overrideString(&cfg.DictionaryURL, *dictURLFlag)
	overrideString(&cfg.Corpus, *corpusFlag)
	overrideString(&cfg.CorpusURL, *urlFlag)
	overrideString(&cfg.Output, *outFlag)
	overrideString(&cfg.Database, *dbFlag)
	overrideString(&cfg.Title, *titleFlag)
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// run reads every input before rendering; any read failure aborts without output.
func run(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	start := time.Now()

	var table scores.Table
	if cfg.Scores == "" {
		table = scores.Default()
		fmt.Fprintf(stdout, "Using built-in roundness table (%d phones)\n", len(table))
	} else {
		t, err := scores.Load(cfg.Scores)
		if err != nil {
			return fmt.Errorf("failed to load score table: %w", err)
		}
		table = t
		fmt.Fprintf(stdout, "Loaded %d phone scores from %s\n", len(table), cfg.Scores)
	}

	if err := dictionary.EnsureDictionary(ctx, cfg.Dictionary, cfg.DictionaryURL); err != nil {
		return fmt.Errorf("failed to ensure dictionary: %w", err)
	}
	dict, err := dictionary.Load(cfg.Dictionary)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	fmt.Fprintf(stdout, "Loaded %d dictionary entries from %s\n", len(dict), cfg.Dictionary)

	text, source, title, err := readCorpus(ctx, cfg)
	if err != nil {
		return err
	}

	structured := corpus.StructureText(text, dict, table)
	fmt.Fprintf(stdout, "Structured %d lines (%d resolved words)\n", len(structured), structured.WordCount())

	r := render.NewRenderer()
	r.Layout = cfg.Layout
	r.Workers = cfg.Workers
	r.Logger = log.New(stdout, "", 0)
	svg, err := writeOutput(ctx, r, cfg.Output, structured)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", cfg.Output)

	if cfg.Database != "" {
		conn, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer conn.Close()

		counts := structured.WordCounts()
		words := make([]db.WordOccurrence, len(counts))
		for i, c := range counts {
			words[i] = db.WordOccurrence{Word: c.Word, Pronunciation: c.Pronunciation, Count: c.Count}
		}
		id, err := db.SaveRender(conn, db.Render{
			Title:     title,
			Source:    source,
			SVG:       svg,
			LineCount: len(structured),
			WordCount: structured.WordCount(),
		}, words)
		if err != nil {
			return fmt.Errorf("failed to archive render: %w", err)
		}
		fmt.Fprintf(stdout, "Archived render %s\n", id)
	}

	fmt.Fprintf(stdout, "Processing complete in %v.\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// writeOutput renders c into path and returns the document for archiving.
// A failed render removes the file so no partial output is left behind.
func writeOutput(ctx context.Context, r *render.Renderer, path string, c corpus.Structured) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output: %w", err)
	}
	var buf bytes.Buffer
	werr := r.Write(ctx, io.MultiWriter(f, &buf), c)
	cerr := f.Close()
	if werr != nil {
		os.Remove(path)
		return "", fmt.Errorf("render failed: %w", werr)
	}
	if cerr != nil {
		return "", fmt.Errorf("failed to write output: %w", cerr)
	}
	return buf.String(), nil
}

// readCorpus returns the corpus text with its source and title.
func readCorpus(ctx context.Context, cfg config.Config) (text, source, title string, err error) {
	if cfg.CorpusURL != "" {
		article, err := corpus.FetchArticle(ctx, nil, cfg.CorpusURL)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to fetch corpus: %w", err)
		}
		title = cfg.Title
		if title == "" {
			title = article.Title
		}
		return article.Text, cfg.CorpusURL, title, nil
	}

	f, err := os.Open(cfg.Corpus)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()
	text, err = corpus.ReadText(f)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read corpus: %w", err)
	}
	title = cfg.Title
	if title == "" {
		title = filepath.Base(cfg.Corpus)
	}
	return text, cfg.Corpus, title, nil
}
