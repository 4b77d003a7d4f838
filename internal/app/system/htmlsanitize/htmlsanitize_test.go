package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/mindfulness/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSanitize_Empty(t *testing.T) {
	if result := htmlsanitize.Sanitize(""); result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainTextUnchanged(t *testing.T) {
	for _, in := range []string{"Hello, World!", "Tom's class & friends", `say "om"`} {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestSanitize_StripsTags(t *testing.T) {
	if got := htmlsanitize.Sanitize("<b>Morning</b> Yoga"); got != "Morning Yoga" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<script>alert('xss')</script>Calm")
	if strings.Contains(got, "alert") || strings.Contains(got, "script") {
		t.Errorf("expected script removed, got %q", got)
	}
	if !strings.Contains(got, "Calm") {
		t.Errorf("expected text preserved, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	got := htmlsanitize.Sanitize(`<p>Content</p><iframe src="https://evil.com"></iframe>`)
	if strings.Contains(got, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(got, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("") {
		t.Error("expected empty string to be plain text")
	}
	if !htmlsanitize.IsPlainText("Hello") {
		t.Error("expected string without tags to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}

func TestSanitizeDoc_Nested(t *testing.T) {
	doc := bson.M{
		"name":  "<i>Breathing</i>",
		"seats": float64(12),
		"meta": map[string]any{
			"note": "<script>x()</script>ok",
		},
		"tags": []any{"<b>calm</b>", "focus"},
	}

	got := htmlsanitize.SanitizeDoc(doc)

	if got["name"] != "Breathing" {
		t.Errorf("name: got %v", got["name"])
	}
	if got["seats"] != float64(12) {
		t.Errorf("non-string values must be kept, got %v", got["seats"])
	}
	meta, ok := got["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta: expected map, got %T", got["meta"])
	}
	if meta["note"] != "ok" {
		t.Errorf("meta.note: got %v", meta["note"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "calm" || tags[1] != "focus" {
		t.Errorf("tags: got %v", got["tags"])
	}
	if doc["name"] != "<i>Breathing</i>" {
		t.Error("input document must not be modified")
	}
}

func TestSanitizeDoc_Nil(t *testing.T) {
	if htmlsanitize.SanitizeDoc(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestSanitize_KeepsComparisonAndAmpersand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ages 5 < 10", "Ages 5 < 10"},
		{"Tom & Jerry <3", "Tom & Jerry <3"},
		{"a -> b", "a -> b"},
		{"<i>Calm</i> & <b>quiet</b>", "Calm & quiet"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
