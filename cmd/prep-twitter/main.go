// Command prep-twitter loads two labeled CSV exports, merges them into one
// deduplicated dataset and writes the merged CSV, optionally enriching
// rows with cleaned text and derived features.
package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/cognicore/dataprep/pkg/prep/clean"
	"github.com/cognicore/dataprep/pkg/prep/config"
	"github.com/cognicore/dataprep/pkg/prep/dedup"
	"github.com/cognicore/dataprep/pkg/prep/report"
	"github.com/cognicore/dataprep/pkg/prep/tabular"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Optional YAML config file")
		aPath   = flag.String("a", "", "First input CSV (required unless configured)")
		aLabel  = flag.String("a-label", "", "Provenance label for the first input")
		bPath   = flag.String("b", "", "Second input CSV (required unless configured)")
		bLabel  = flag.String("b-label", "", "Provenance label for the second input")
		outPath = flag.String("out", "", "Merged output CSV (required unless configured)")
		doClean = flag.Bool("clean", false, "Add cleaned-text and derived feature columns")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	inputs := cfg.Twitter.Inputs
	if *aPath != "" {
		inputs = []config.Input{{Path: *aPath, Label: *aLabel}, {Path: *bPath, Label: *bLabel}}
	}
	if len(inputs) != 2 || inputs[0].Path == "" || inputs[1].Path == "" {
		log.Fatal("two input CSVs required (--a and --b, or twitter.inputs in config)")
	}
	out := cfg.Twitter.Output
	if *outPath != "" {
		out = *outPath
	}
	if out == "" {
		log.Fatal("--out required")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	rep := report.NewLog(level)

	loader := tabular.Loader{
		EncodingFallback: true,
		TextColumns:      cfg.Columns.Text,
		HashtagColumns:   cfg.Columns.Hashtags,
		DatetimeColumns:  cfg.Columns.Datetime,
		Reporter:         rep,
	}

	a, err := loader.Load(inputs[0].Path, inputs[0].Label)
	if err != nil {
		log.Fatalf("load %s: %v", inputs[0].Path, err)
	}
	b, err := loader.Load(inputs[1].Path, inputs[1].Label)
	if err != nil {
		log.Fatalf("load %s: %v", inputs[1].Path, err)
	}

	merged, stats := dedup.Merge(a, b, dedup.Options{
		IDColumns:   cfg.Columns.ID,
		TextColumns: cfg.Columns.Text,
		Reporter:    rep,
	})

	if *doClean || cfg.Twitter.Clean {
		enrich(merged, cfg.Columns.Text)
	}

	if err := tabular.WriteCSV(merged, out); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}

	log.Printf("Wrote %s: %d rows (%d removed by id, %d by text)",
		out, len(merged.Rows), stats.ByID, stats.ByText)
}

// enrich adds text_clean, word_count, char_count and is_retweet columns
// derived from the canonical text column.
func enrich(d *tabular.Dataset, textCandidates []string) {
	if len(textCandidates) == 0 {
		textCandidates = tabular.DefaultTextColumns
	}
	textCol, ok := d.FirstColumn(textCandidates)
	if !ok {
		return
	}

	for i := range d.Rows {
		raw := d.Rows[i].Fields[textCol]
		cleaned := clean.Text(clean.StripHTML(raw))
		feats := clean.Derive(raw, cleaned)

		d.Rows[i].Fields["text_clean"] = cleaned
		d.Rows[i].Fields["word_count"] = strconv.Itoa(feats.WordCount)
		d.Rows[i].Fields["char_count"] = strconv.Itoa(feats.CharCount)
		d.Rows[i].Fields["is_retweet"] = strconv.FormatBool(feats.IsRetweet)
	}

	d.AddColumn("text_clean")
	d.AddColumn("word_count")
	d.AddColumn("char_count")
	d.AddColumn("is_retweet")
}
