package manifest_test

import (
	"testing"
	"time"

	"reelcut/internal/manifest"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "00:00:00", want: 0},
		{in: "01:02:03", want: time.Hour + 2*time.Minute + 3*time.Second},
		{in: " 9:05:00 ", want: 9*time.Hour + 5*time.Minute},
		{in: "23:59:59", want: 23*time.Hour + 59*time.Minute + 59*time.Second},
		{in: "24:00:00", wantErr: true},
		{in: "00:60:00", wantErr: true},
		{in: "00:00:60", wantErr: true},
		{in: "00:00", wantErr: true},
		{in: "00:00:01.5", wantErr: true},
		{in: "aa:bb:cc", wantErr: true},
		{in: "-1:00:00", wantErr: true},
		{in: "+1:+2:+3", wantErr: true},
		{in: "-0:00:05", wantErr: true},
		{in: "00:00: 5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := manifest.ParseTimecode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimecode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseTimecode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTimecode(t *testing.T) {
	if got := manifest.FormatTimecode(time.Hour + 2*time.Minute + 3*time.Second + 400*time.Millisecond); got != "01:02:03" {
		t.Fatalf("FormatTimecode = %q", got)
	}
	if got := manifest.FormatTimecode(-time.Second); got != "00:00:00" {
		t.Fatalf("FormatTimecode(negative) = %q", got)
	}
}
