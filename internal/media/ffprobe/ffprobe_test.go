package ffprobe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"wobble/internal/clip"
)

const interlacedReport = `{
  "streams": [
    {"index": 0, "codec_name": "mpeg2video", "codec_type": "video", "width": 720, "height": 480,
     "field_order": "tt", "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001",
     "duration": "10.010000", "nb_frames": "300"}
  ],
  "format": {"filename": "episode.mkv", "nb_streams": 1, "duration": "10.010000", "format_name": "matroska,webm"}
}`

func TestParseInterlacedReport(t *testing.T) {
	result, err := Parse([]byte(interlacedReport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	order, ok := result.FieldOrder()
	if !ok || order != clip.TopFieldFirst {
		t.Fatalf("expected top field first, got %v (%v)", order, ok)
	}
	count, exact := result.FrameCount()
	if count != 300 || !exact {
		t.Fatalf("expected exact count 300, got %d (%v)", count, exact)
	}
	if rate := result.FrameRate(); rate < 29.97 || rate > 29.98 {
		t.Fatalf("unexpected frame rate %v", rate)
	}
	if string(result.RawJSON()) != interlacedReport {
		t.Fatal("expected raw payload to be preserved")
	}
}

func TestFrameCountFallsBackToEstimate(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", RFrameRate: "24000/1001"}},
		Format:  Format{Duration: "2.002"},
	}
	count, exact := result.FrameCount()
	if exact {
		t.Fatal("expected an estimated count")
	}
	if count != 48 {
		t.Fatalf("expected 48 frames, got %d", count)
	}
}

func TestFrameCountPrefersDecodedCount(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", NBFrames: "100", NBReadFrames: "98"}}}
	if count, _ := result.FrameCount(); count != 98 {
		t.Fatalf("expected nb_read_frames to win, got %d", count)
	}
}

func TestFieldOrderUnknownForProgressive(t *testing.T) {
	tests := []struct {
		name   string
		result Result
	}{
		{name: "progressive", result: Result{Streams: []Stream{{CodecType: "video", FieldOrder: "progressive"}}}},
		{name: "missing", result: Result{Streams: []Stream{{CodecType: "video"}}}},
		{name: "audio only", result: Result{Streams: []Stream{{CodecType: "audio", FieldOrder: "tt"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.result.FieldOrder(); ok {
				t.Fatal("expected no field order")
			}
		})
	}
}

func TestParseRational(t *testing.T) {
	if got := parseRational("25/0"); got != 0 {
		t.Fatalf("expected 0 for zero denominator, got %v", got)
	}
	if got := parseRational("25"); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func TestInspectRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(report, []byte(interlacedReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + report + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "episode.mkv", Options{CountFrames: true})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Format.Filename != "episode.mkv" {
		t.Fatalf("unexpected filename %q", result.Format.Filename)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " ", Options{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
