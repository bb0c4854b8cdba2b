package pagination

import (
	"math"
	"net/url"
	"testing"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Params
	}{
		{
			name:     "defaults",
			query:    "",
			expected: Params{Page: 1, Limit: DefaultLimit},
		},
		{
			name:     "explicit page and limit",
			query:    "page=3&limit=20",
			expected: Params{Page: 3, Limit: 20},
		},
		{
			name:     "limit clamped to maximum",
			query:    "limit=5000",
			expected: Params{Page: 1, Limit: MaxLimit},
		},
		{
			name:     "malformed values fall back",
			query:    "page=abc&limit=xyz",
			expected: Params{Page: 1, Limit: DefaultLimit},
		},
		{
			name:     "zero and negative values fall back",
			query:    "page=0&limit=-5",
			expected: Params{Page: 1, Limit: DefaultLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parsing query: %v", err)
			}
			got := FromQuery(values)
			if got != tt.expected {
				t.Errorf("FromQuery() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected int32
	}{
		{name: "first page", params: Params{Page: 1, Limit: 6}, expected: 0},
		{name: "second page", params: Params{Page: 2, Limit: 6}, expected: 6},
		{name: "large page", params: Params{Page: 10, Limit: 25}, expected: 225},
		{name: "extreme page clamps instead of wrapping", params: Params{Page: math.MaxInt32, Limit: MaxLimit}, expected: math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Offset(); got != tt.expected {
				t.Errorf("Offset() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPreviewLimit(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		fallback int32
		expected int32
	}{
		{name: "absent", query: "", fallback: 6, expected: 6},
		{name: "explicit", query: "recipes_limit=3", fallback: 6, expected: 3},
		{name: "malformed", query: "recipes_limit=abc", fallback: 6, expected: 6},
		{name: "zero", query: "recipes_limit=0", fallback: 6, expected: 6},
		{name: "clamped", query: "recipes_limit=9999", fallback: 6, expected: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parsing query: %v", err)
			}
			if got := PreviewLimit(values, tt.fallback); got != tt.expected {
				t.Errorf("PreviewLimit() = %d, want %d", got, tt.expected)
			}
		})
	}
}
