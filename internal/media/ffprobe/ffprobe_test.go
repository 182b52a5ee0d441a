package ffprobe

import (
	"context"
	"encoding/json"
	"testing"
)

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDurationSeconds(t *testing.T) {
	cases := []struct {
		name     string
		duration string
		want     float64
		wantErr  bool
	}{
		{"whole seconds", "1865.000000", 1865, false},
		{"fractional", "12.48", 12.48, false},
		{"empty", "", 0, true},
		{"garbage", "N/A", 0, true},
		{"negative", "-3", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Result{Format: Format{Duration: tc.duration}}
			got, err := r.DurationSeconds()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.duration)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResultDecodesFFprobeJSON(t *testing.T) {
	payload := `{"format":{"filename":"/videos/sermon.mp4","duration":"1865.003000","size":"1048576","format_name":"mov,mp4,m4a,3gp,3g2,mj2"}}`

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	seconds, err := result.DurationSeconds()
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if seconds != 1865.003 {
		t.Fatalf("unexpected duration: %v", seconds)
	}
	if result.Format.FormatName == "" {
		t.Fatal("expected format name to decode")
	}
}
