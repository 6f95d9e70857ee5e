package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/dataprep/pkg/prep/report"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadBasic(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"tweet_id,text,created_at\n"+
			"1,hello #world,2020-10-20 12:00:00\n"+
			"2,plain message,2020-10-21 08:30:00\n")

	l := &Loader{}
	d, err := l.Load(path, "biden")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(d.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(d.Rows))
	}
	if !d.HasColumn("hashtags") || !d.HasColumn("label") {
		t.Errorf("derived columns missing: %v", d.Columns)
	}
	if d.Rows[0].Fields["label"] != "biden" {
		t.Errorf("label not stamped: %q", d.Rows[0].Fields["label"])
	}
	if !reflect.DeepEqual(d.Rows[0].Hashtags, []string{"#world"}) {
		t.Errorf("hashtags from text: got %v", d.Rows[0].Hashtags)
	}
	if len(d.Rows[1].Hashtags) != 0 {
		t.Errorf("row without tags: got %v", d.Rows[1].Hashtags)
	}
}

func TestLoadPrefersExistingHashtagColumn(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,text,hashtags\n"+
			"1,some #ignored text,\"[\"\"#kept\"\"]\"\n")

	l := &Loader{}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(d.Rows[0].Hashtags, []string{"#kept"}) {
		t.Errorf("existing column should win over extraction, got %v", d.Rows[0].Hashtags)
	}
}

func TestLoadDropsBlankTextRows(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,text\n"+
			"1,real content\n"+
			"2,\n"+
			"3,   \n"+
			"4,more content\n")

	rec := report.NewRecorder()
	l := &Loader{Reporter: rec}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(d.Rows))
	}
	if rec.Counts["rows with text"] != 2 {
		t.Errorf("before/after count not reported: %v", rec.Counts)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,text\n"+
			"1,good row\n"+
			"2,bad \"quote row\n"+
			"3,another good row\n"+
			"4,too,many,fields,here\n")

	rec := report.NewRecorder()
	l := &Loader{Reporter: rec}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var ids []string
	for _, row := range d.Rows {
		ids = append(ids, row.Fields["id"])
	}
	if !reflect.DeepEqual(ids, []string{"1", "3"}) {
		t.Errorf("surviving rows: got %v, want [1 3]", ids)
	}
}

func TestLoadPadsShortRows(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,text,extra\n"+
			"1,content\n")

	l := &Loader{}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(d.Rows))
	}
	if v, ok := d.Rows[0].Fields["extra"]; !ok || v != "" {
		t.Errorf("short row should be padded with empty cells, got %q ok=%v", v, ok)
	}
}

func TestLoadLatin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
	content := []byte("id,text\n1,caf\xe9 open\n")
	path := filepath.Join(t.TempDir(), "latin1.csv")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	rec := report.NewRecorder()
	l := &Loader{EncodingFallback: true, Reporter: rec}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Rows[0].Fields["text"] != "café open" {
		t.Errorf("got %q", d.Rows[0].Fields["text"])
	}
	if len(rec.Warnings) == 0 {
		t.Error("fallback should be surfaced as a warning")
	}

	l2 := &Loader{EncodingFallback: false}
	if _, err := l2.Load(path, ""); err == nil {
		t.Error("without fallback, invalid UTF-8 should fail")
	}
}

func TestLoadNormalizesDatetimes(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,text,created_at\n"+
			"1,a,2020-10-20 12:00:00\n"+
			"2,b,2020-10-21\n"+
			"3,c,not a date\n")

	l := &Loader{}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := d.Rows[0].Fields["created_at"]; got != "2020-10-20 12:00:00" {
		t.Errorf("row 1: got %q", got)
	}
	if got := d.Rows[1].Fields["created_at"]; got != "2020-10-21 00:00:00" {
		t.Errorf("row 2: got %q", got)
	}
	if got := d.Rows[2].Fields["created_at"]; got != "" {
		t.Errorf("unparseable value should become the null marker, got %q", got)
	}
}

func TestLoadWithoutTextColumnWarns(t *testing.T) {
	path := writeFile(t, "tweets.csv",
		"id,amount\n"+
			"1,10\n")

	rec := report.NewRecorder()
	l := &Loader{Reporter: rec}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Rows) != 1 {
		t.Fatalf("rows: got %d", len(d.Rows))
	}
	if len(d.Rows[0].Hashtags) != 0 {
		t.Errorf("hashtags should be empty, got %v", d.Rows[0].Hashtags)
	}

	found := false
	for _, w := range rec.Warnings {
		if strings.Contains(w, "no text column") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a no-text-column warning, got %v", rec.Warnings)
	}
}

func TestLoadCustomCandidateLists(t *testing.T) {
	path := writeFile(t, "posts.csv",
		"post_key,body\n"+
			"1,text with #tag\n")

	l := &Loader{TextColumns: []string{"body"}}
	d, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(d.Rows[0].Hashtags, []string{"#tag"}) {
		t.Errorf("custom text column not honored: %v", d.Rows[0].Hashtags)
	}
}
