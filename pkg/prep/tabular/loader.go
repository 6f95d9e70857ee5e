package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/cognicore/dataprep/pkg/prep/report"
)

// Default column-name candidate lists, in priority order.
var (
	DefaultTextColumns     = []string{"text", "tweet", "content", "message"}
	DefaultHashtagColumns  = []string{"hashtags", "hashtag", "tags"}
	DefaultDatetimeColumns = []string{"created_at", "tweet_created", "date", "timestamp"}
)

// Loader reads a delimited file into a Dataset, tolerant of malformed
// rows and encoding issues. Zero value works with the defaults.
type Loader struct {
	// EncodingFallback re-decodes the file as Latin-1 when it is not
	// valid UTF-8. No third encoding is attempted.
	EncodingFallback bool

	TextColumns     []string
	HashtagColumns  []string
	DatetimeColumns []string

	Reporter report.Reporter
}

// Load reads path into a Dataset. When label is non-empty it is stamped
// onto every row as provenance.
func (l *Loader) Load(path, label string) (*Dataset, error) {
	rep := l.reporter()
	rep.Stage("load", "file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		if !l.EncodingFallback {
			return nil, fmt.Errorf("%s is not valid UTF-8 and encoding fallback is disabled", path)
		}
		rep.Warn("file is not valid UTF-8, decoding as Latin-1", "file", path)
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s as Latin-1: %w", path, err)
		}
	}

	d, skipped, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rep.Count("rows loaded", len(d.Rows), "columns", len(d.Columns), "skipped_rows", skipped)

	l.normalizeDatetimes(d)

	textCol, hasText := d.FirstColumn(l.textColumns())

	l.deriveHashtags(d, textCol, hasText)

	if hasText {
		before := len(d.Rows)
		kept := d.Rows[:0]
		for _, row := range d.Rows {
			if strings.TrimSpace(row.Fields[textCol]) != "" {
				kept = append(kept, row)
			}
		}
		d.Rows = kept
		rep.Count("rows with text", len(d.Rows), "removed", before-len(d.Rows))
	}

	if label != "" {
		for i := range d.Rows {
			d.Rows[i].Fields["label"] = label
		}
		d.AddColumn("label")
	}

	return d, nil
}

// parseCSV reads rows under a permissive dialect: short rows are padded,
// rows longer than the header or failing to parse are skipped.
func parseCSV(data []byte) (*Dataset, int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	d := &Dataset{Columns: append([]string(nil), header...)}
	skipped := 0
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, skipped, err
		}
		if len(cells) > len(header) {
			skipped++
			continue
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				fields[col] = cells[i]
			} else {
				fields[col] = ""
			}
		}
		d.Rows = append(d.Rows, Row{Fields: fields})
	}

	return d, skipped, nil
}

// normalizeDatetimes opportunistically parses recognized datetime columns.
// Unparseable values become the empty null marker, not an error.
func (l *Loader) normalizeDatetimes(d *Dataset) {
	for _, col := range l.datetimeColumns() {
		if !d.HasColumn(col) {
			continue
		}
		for i := range d.Rows {
			t, ok := parseDatetime(d.Rows[i].Fields[col])
			if ok {
				d.Rows[i].Fields[col] = t.Format("2006-01-02 15:04:05")
			} else {
				d.Rows[i].Fields[col] = ""
			}
		}
	}
}

// deriveHashtags fills each row's hashtag list, preferring an existing
// hashtag-like column over extraction from free text.
func (l *Loader) deriveHashtags(d *Dataset, textCol string, hasText bool) {
	rep := l.reporter()

	if col, ok := d.FirstColumn(l.hashtagColumns()); ok {
		for i := range d.Rows {
			d.Rows[i].Hashtags = ParseHashtagCell(d.Rows[i].Fields[col])
		}
	} else if hasText {
		for i := range d.Rows {
			d.Rows[i].Hashtags = ExtractHashtags(d.Rows[i].Fields[textCol])
		}
	} else {
		rep.Warn("no text column found, cannot extract hashtags")
		for i := range d.Rows {
			d.Rows[i].Hashtags = []string{}
		}
	}
	d.AddColumn("hashtags")
}

func (l *Loader) textColumns() []string {
	if len(l.TextColumns) > 0 {
		return l.TextColumns
	}
	return DefaultTextColumns
}

func (l *Loader) hashtagColumns() []string {
	if len(l.HashtagColumns) > 0 {
		return l.HashtagColumns
	}
	return DefaultHashtagColumns
}

func (l *Loader) datetimeColumns() []string {
	if len(l.DatetimeColumns) > 0 {
		return l.DatetimeColumns
	}
	return DefaultDatetimeColumns
}

func (l *Loader) reporter() report.Reporter {
	if l.Reporter != nil {
		return l.Reporter
	}
	return report.Nop
}
