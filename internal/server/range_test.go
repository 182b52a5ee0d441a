package server

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		size      int64
		wantStart int64
		wantEnd   int64
		wantErr   error
	}{
		{"explicit range", "bytes=0-99", 1000, 0, 99, nil},
		{"open ended", "bytes=500-", 1000, 500, 999, nil},
		{"end clamped to file", "bytes=0-5000", 1000, 0, 999, nil},
		{"single byte", "bytes=999-999", 1000, 999, 999, nil},
		{"start at size", "bytes=1000-", 1000, 0, 0, errRangeUnsatisfiable},
		{"start beyond size", "bytes=4000-5000", 1000, 0, 0, errRangeUnsatisfiable},
		{"missing prefix", "0-99", 1000, 0, 0, errRangeSyntax},
		{"suffix form unsupported", "bytes=-500", 1000, 0, 0, errRangeSyntax},
		{"multiple ranges", "bytes=0-1,5-9", 1000, 0, 0, errRangeSyntax},
		{"garbage start", "bytes=abc-", 1000, 0, 0, errRangeSyntax},
		{"end before start", "bytes=50-10", 1000, 0, 0, errRangeSyntax},
		{"no dash", "bytes=100", 1000, 0, 0, errRangeSyntax},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := parseRange(tc.header, tc.size)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tc.wantStart || end != tc.wantEnd {
				t.Fatalf("range = %d-%d, want %d-%d", start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}
