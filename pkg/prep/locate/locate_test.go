package locate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/dataprep/pkg/prep/internalerr"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Democrats_Submissions.zst")
	touch(t, dir, "democrats_comments.zst")

	got, err := Find(dir, "democrats", "submission")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "Democrats_Submissions.zst" {
		t.Errorf("got %s", got)
	}
}

func TestFindPrefersShortestName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "republican_comments_backup_old.zst")
	touch(t, dir, "republican_comments.zst")

	got, err := Find(dir, "republican", "comment")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "republican_comments.zst" {
		t.Errorf("shortest name should win, got %s", got)
	}
}

func TestFindRequiresBothTokens(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "democrats_submissions.zst")

	_, err := Find(dir, "democrats", "comment")
	if err == nil {
		t.Fatal("expected error when kind token is missing")
	}
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("error should wrap ErrNotFound, got %v", err)
	}
}

func TestFindErrorNamesContext(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir, "greens", "submission")
	if err == nil {
		t.Fatal("expected error for empty directory")
	}
	for _, want := range []string{dir, "greens", "submission"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "democrats_submissions"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, dir, "democrats_submissions.zst")

	got, err := Find(dir, "democrats", "submission")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "democrats_submissions.zst" {
		t.Errorf("got %s", got)
	}
}
