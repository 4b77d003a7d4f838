package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int64
	}{
		{"missing", "/top-classes", DefaultLimit},
		{"empty", "/top-classes?limit=", DefaultLimit},
		{"explicit", "/top-classes?limit=3", 3},
		{"large", "/top-classes?limit=100", 100},
		{"zero", "/top-classes?limit=0", DefaultLimit},
		{"negative", "/top-classes?limit=-2", DefaultLimit},
		{"not a number", "/top-classes?limit=abc", DefaultLimit},
		{"float", "/top-classes?limit=2.5", DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParseLimit(r, DefaultLimit); got != tt.want {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestParseLimit_CustomDefault(t *testing.T) {
	r := httptest.NewRequest("GET", "/x", nil)
	if got := ParseLimit(r, 10); got != 10 {
		t.Errorf("expected custom default 10, got %d", got)
	}
}
