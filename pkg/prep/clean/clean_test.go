package clean

import (
	"strings"
	"testing"
)

func TestTextRemovesNoise(t *testing.T) {
	got := Text("RT @user: Check out this #amazing link https://example.com")

	if strings.Contains(got, "@user") {
		t.Errorf("mention survived: %q", got)
	}
	if strings.Contains(got, "http") {
		t.Errorf("url survived: %q", got)
	}
	if strings.Contains(got, "rt ") || strings.HasPrefix(got, "rt") {
		t.Errorf("retweet marker survived: %q", got)
	}
	if !strings.Contains(got, "amazing") {
		t.Errorf("hashtag word should be kept without the marker: %q", got)
	}
	if strings.Contains(got, "#") {
		t.Errorf("marker survived: %q", got)
	}
}

func TestTextLowercasesAndCollapsesWhitespace(t *testing.T) {
	got := Text("Mixed   CASE\t\twords")
	if got != "mixed case words" {
		t.Errorf("got %q", got)
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("got %q", got)
	}
}

func TestStripHTMLPlainTextUnchanged(t *testing.T) {
	got := StripHTML("no markup here")
	if got != "no markup here" {
		t.Errorf("got %q", got)
	}
}

func TestDerive(t *testing.T) {
	raw := "RT @a some words here"
	cleaned := Text(raw)
	f := Derive(raw, cleaned)

	if !f.IsRetweet {
		t.Error("IsRetweet should be true")
	}
	if f.WordCount != 3 {
		t.Errorf("WordCount: got %d, want 3", f.WordCount)
	}
	if f.CharCount != len(cleaned) {
		t.Errorf("CharCount: got %d, want %d", f.CharCount, len(cleaned))
	}
}
