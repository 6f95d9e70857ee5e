package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteCSVHashtagRoundTrip(t *testing.T) {
	d := &Dataset{
		Columns: []string{"id", "text", "hashtags"},
		Rows: []Row{
			{Fields: map[string]string{"id": "1", "text": "first #a #b"}, Hashtags: []string{"#a", "#b"}},
			{Fields: map[string]string{"id": "2", "text": "second"}, Hashtags: []string{}},
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	l := &Loader{}
	got, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(got.Rows))
	}
	if !reflect.DeepEqual(got.Rows[0].Hashtags, []string{"#a", "#b"}) {
		t.Errorf("round trip changed hashtags: %v", got.Rows[0].Hashtags)
	}
	if !reflect.DeepEqual(got.Rows[1].Hashtags, []string{}) {
		t.Errorf("empty list round trip: %v", got.Rows[1].Hashtags)
	}
}

func TestWriteCSVCreatesOutputDir(t *testing.T) {
	d := &Dataset{Columns: []string{"id"}, Rows: []Row{{Fields: map[string]string{"id": "1"}}}}

	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output missing: %v", err)
	}

	// Repeat runs are idempotent on the directory.
	if err := WriteCSV(d, path); err != nil {
		t.Errorf("second write: %v", err)
	}
}

func TestWriteCSVNilHashtagsSerializeAsEmptyList(t *testing.T) {
	d := &Dataset{
		Columns: []string{"id", "hashtags"},
		Rows:    []Row{{Fields: map[string]string{"id": "1"}}},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[]") {
		t.Errorf("nil hashtags should serialize as [], got %q", string(data))
	}
}
