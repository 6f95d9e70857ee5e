package reddit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/dataprep/pkg/prep/locate"
	"github.com/cognicore/dataprep/pkg/prep/report"
	"github.com/cognicore/dataprep/pkg/prep/zstream"
)

// Pipeline extracts submissions and comments for logical sources from raw
// archive files and writes one normalized CSV per source.
type Pipeline struct {
	BaseDir   string
	OutputDir string
	Window    Window
	Domain    string
	ChunkSize int
	Reporter  report.Reporter
}

// Run processes each source in order. A failure on any source aborts the
// batch; a partial multi-source run is never treated as success.
func (p *Pipeline) Run(sources []string) ([]string, error) {
	var outputs []string
	for _, source := range sources {
		out, err := p.ProcessSource(source)
		if err != nil {
			return outputs, fmt.Errorf("source %s: %w", source, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// ProcessSource ingests one source's submissions followed by its comments
// and writes the combined CSV. The output name is derived from the source
// and the window, so re-runs overwrite rather than accumulate.
func (p *Pipeline) ProcessSource(source string) (string, error) {
	rep := p.reporter()

	submissionsFile, err := locate.Find(p.BaseDir, source, "submission")
	if err != nil {
		return "", err
	}
	commentsFile, err := locate.Find(p.BaseDir, source, "comment")
	if err != nil {
		return "", err
	}

	rep.Stage("ingest", "source", source,
		"submissions", filepath.Base(submissionsFile),
		"comments", filepath.Base(commentsFile))

	records, err := p.streamFile(submissionsFile, KindSubmission)
	if err != nil {
		return "", err
	}
	comments, err := p.streamFile(commentsFile, KindComment)
	if err != nil {
		return "", err
	}
	records = append(records, comments...)

	out, err := p.writeCSV(source, records)
	if err != nil {
		return "", err
	}

	rep.Count("records written", len(records), "output", out)
	return out, nil
}

// streamFile decodes one archive into normalized records. Malformed lines
// and events without a usable timestamp are skipped, not fatal.
func (p *Pipeline) streamFile(path string, kind Kind) ([]Record, error) {
	rep := p.reporter()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	opts := []zstream.Option{}
	if p.ChunkSize > 0 {
		opts = append(opts, zstream.WithChunkSize(p.ChunkSize))
	}
	sc, err := zstream.NewScanner(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", path, err)
	}
	defer sc.Close()

	norm := &Normalizer{Window: p.Window, Domain: p.Domain}

	var records []Record
	var badLines, dropped int
	for sc.Scan() {
		var obj map[string]any
		if err := json.Unmarshal([]byte(sc.Text()), &obj); err != nil {
			rep.Debug("skipping malformed JSON line", "file", filepath.Base(path))
			badLines++
			continue
		}
		rec, drop := norm.Normalize(obj, kind)
		switch drop {
		case DropNone:
			records = append(records, rec)
		case DropBadTimestamp:
			rep.Debug("skipping record without valid created_utc", "file", filepath.Base(path))
			dropped++
		default:
			dropped++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stream %s: %w", path, err)
	}

	rep.Count("records kept", len(records),
		"kind", string(kind),
		"malformed_lines", badLines,
		"dropped", dropped)

	return records, nil
}

// writeCSV persists the records in fixed column order.
func (p *Pipeline) writeCSV(source string, records []Record) (string, error) {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", p.OutputDir, err)
	}

	name := fmt.Sprintf("%s_posts_%s_%s.csv",
		strings.ToLower(source),
		p.Window.From.Format(dateLayout),
		p.Window.To.Format(dateLayout))
	out := filepath.Join(p.OutputDir, name)

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", out, err)
	}

	return out, nil
}

func (p *Pipeline) reporter() report.Reporter {
	if p.Reporter != nil {
		return p.Reporter
	}
	return report.Nop
}
