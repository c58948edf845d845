package ffprobe

import (
	"math"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.5",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.Duration() != 123*time.Second+500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", result.Duration())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.Duration() != 0 {
		t.Fatalf("expected unknown duration, got %v", result.Duration())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Duration: "59.9"},
			{CodecType: "audio", Duration: "60"},
		},
	}
	if result.Duration() != time.Minute {
		t.Fatalf("expected longest stream duration, got %v", result.Duration())
	}
}

func TestParse(t *testing.T) {
	payload := []byte(`{"streams":[{"index":0,"codec_type":"video","codec_name":"mpeg2video","width":720,"height":480}],"format":{"filename":"a.mpg","duration":"10.000000","format_name":"mpeg"}}`)
	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Streams[0].Width != 720 || result.Format.FormatName != "mpeg" {
		t.Fatalf("unexpected parse result: %+v", result)
	}
	if result.Duration() != 10*time.Second {
		t.Fatalf("unexpected duration: %v", result.Duration())
	}
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
