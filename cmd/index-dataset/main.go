// Command index-dataset loads a prepared CSV into the SQLite catalog and
// records a run manifest, making the dataset queryable by the downstream
// sentiment and reporting tools.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/cognicore/dataprep/pkg/prep/config"
	"github.com/cognicore/dataprep/pkg/prep/dedup"
	"github.com/cognicore/dataprep/pkg/prep/report"
	"github.com/cognicore/dataprep/pkg/prep/store"
	"github.com/cognicore/dataprep/pkg/prep/store/sqlite"
	"github.com/cognicore/dataprep/pkg/prep/tabular"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "Optional YAML config file")
		input    = flag.String("input", "", "Prepared CSV to index (required)")
		dbPath   = flag.String("db", "", "Catalog database path")
		kind     = flag.String("kind", "twitter", "Dataset kind (reddit or twitter)")
		source   = flag.String("source", "", "Logical source name for the manifest")
		from     = flag.String("from", "", "Only index rows on or after this date (YYYY-MM-DD)")
		to       = flag.String("to", "", "Only index rows on or before this date (YYYY-MM-DD)")
		keywords = flag.String("keywords", "", "Comma-separated keywords; only matching rows are indexed")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	db := cfg.Store.Path
	if *dbPath != "" {
		db = *dbPath
	}
	if db == "" {
		log.Fatal("--db required")
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

	d, err := loader.Load(*input, "")
	if err != nil {
		log.Fatalf("load %s: %v", *input, err)
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, db)
	if err != nil {
		log.Fatalf("open catalog %s: %v", db, err)
	}
	defer st.Close()

	idCols := cfg.Columns.ID
	if len(idCols) == 0 {
		idCols = dedup.DefaultIDColumns
	}
	keyCol, _ := d.FirstColumn(idCols)
	textCol, _ := d.FirstColumn(loaderTextColumns(cfg))
	dateCol, _ := d.FirstColumn(cfg.Columns.Datetime)

	if *from != "" || *to != "" {
		if dateCol == "" {
			log.Fatal("--from/--to require a datetime column in the input")
		}
		fromDay, toDay, err := parseWindow(*from, *to)
		if err != nil {
			log.Fatalf("parse window: %v", err)
		}
		before := len(d.Rows)
		d.FilterByDate(dateCol, fromDay, toDay)
		rep.Count("rows in window", len(d.Rows), "dropped", before-len(d.Rows))
	}
	if *keywords != "" {
		if textCol == "" {
			log.Fatal("--keywords require a text column in the input")
		}
		before := len(d.Rows)
		d.FilterByKeywords(textCol, strings.Split(*keywords, ","))
		rep.Count("rows matching keywords", len(d.Rows), "dropped", before-len(d.Rows))
	}

	run := store.Run{
		ID:         store.NewRunID(),
		Kind:       *kind,
		Source:     *source,
		OutputPath: *input,
		Rows:       len(d.Rows),
		CreatedAt:  time.Now(),
	}
	if err := st.RecordRun(ctx, run); err != nil {
		log.Fatalf("record run: %v", err)
	}

	posts := make([]store.Post, 0, len(d.Rows))
	for _, row := range d.Rows {
		posts = append(posts, store.Post{
			RunID:    run.ID,
			Key:      row.Fields[keyCol],
			Label:    row.Fields["label"],
			Date:     row.Fields[dateCol],
			Text:     row.Fields[textCol],
			Hashtags: row.Hashtags,
		})
	}
	if err := st.InsertPosts(ctx, posts); err != nil {
		log.Fatalf("insert posts: %v", err)
	}

	total, err := st.CountPosts(ctx)
	if err != nil {
		log.Fatalf("count posts: %v", err)
	}

	log.Printf("Indexed %d rows from %s as run %s (%d posts in catalog)",
		len(d.Rows), *input, run.ID, total)
}

func parseWindow(from, to string) (time.Time, time.Time, error) {
	fromDay := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	toDay := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	var err error
	if from != "" {
		if fromDay, err = time.Parse(config.DateLayout, from); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to != "" {
		if toDay, err = time.Parse(config.DateLayout, to); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return fromDay, toDay, nil
}

func loaderTextColumns(cfg config.Config) []string {
	if len(cfg.Columns.Text) > 0 {
		return cfg.Columns.Text
	}
	return tabular.DefaultTextColumns
}
