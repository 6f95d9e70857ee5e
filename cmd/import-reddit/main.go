// Command import-reddit extracts submissions and comments from raw
// subreddit archives (.zst NDJSON) into per-source CSV files filtered to
// the configured date window.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/cognicore/dataprep/pkg/prep/config"
	"github.com/cognicore/dataprep/pkg/prep/reddit"
	"github.com/cognicore/dataprep/pkg/prep/report"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "Optional YAML config file")
		baseDir   = flag.String("base-dir", "", "Directory containing raw archive files")
		outputDir = flag.String("output-dir", "", "Directory to write CSV outputs")
		sources   = flag.String("sources", "", "Comma-separated logical source names")
		from      = flag.String("from", "", "Window start (YYYY-MM-DD)")
		to        = flag.String("to", "", "Window end (YYYY-MM-DD)")
		chunkSize = flag.Int("chunk-size", 0, "Decompressed chunk size in bytes")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
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

	if *baseDir != "" {
		cfg.Reddit.BaseDir = *baseDir
	}
	if *outputDir != "" {
		cfg.Reddit.OutputDir = *outputDir
	}
	if *sources != "" {
		cfg.Reddit.Sources = splitList(*sources)
	}
	if *from != "" {
		cfg.Reddit.From = *from
	}
	if *to != "" {
		cfg.Reddit.To = *to
	}
	if *chunkSize > 0 {
		cfg.Reddit.ChunkSize = *chunkSize
	}

	if cfg.Reddit.BaseDir == "" {
		log.Fatal("--base-dir required")
	}
	if cfg.Reddit.OutputDir == "" {
		log.Fatal("--output-dir required")
	}
	if len(cfg.Reddit.Sources) == 0 {
		log.Fatal("--sources required")
	}

	windowFrom, windowTo, err := cfg.WindowDates()
	if err != nil {
		log.Fatalf("parse date window: %v", err)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}

	pipeline := &reddit.Pipeline{
		BaseDir:   cfg.Reddit.BaseDir,
		OutputDir: cfg.Reddit.OutputDir,
		Window:    reddit.Window{From: windowFrom, To: windowTo},
		ChunkSize: cfg.Reddit.ChunkSize,
		Reporter:  report.NewLog(level),
	}

	start := time.Now()
	outputs, err := pipeline.Run(cfg.Reddit.Sources)
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	log.Printf("Completed in %s. Outputs: %s", time.Since(start).Round(time.Millisecond), strings.Join(outputs, ", "))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
