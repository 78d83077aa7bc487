package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"wobble/internal/clip"
)

// Result is the decoded ffprobe report for the first video stream.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes one stream in the container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	FieldOrder   string `json:"field_order"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	NBFrames     string `json:"nb_frames"`
	NBReadFrames string `json:"nb_read_frames"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Options tunes an inspection.
type Options struct {
	// CountFrames decodes the stream for an exact frame count. Slow.
	CountFrames bool
}

// Inspect runs ffprobe on the first video stream of path.
func Inspect(ctx context.Context, binary, path string, opts Options) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := []string{"-v", "error", "-hide_banner", "-select_streams", "v:0"}
	if opts.CountFrames {
		args = append(args, "-count_frames")
	}
	args = append(args, "-show_format", "-show_streams", "-of", "json", "--", path)

	output, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON report.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), data...)
	return result, nil
}

// RawJSON returns the raw ffprobe payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// FieldOrder maps the stream's field order. The boolean is false for
// progressive or unknown streams.
func (r Result) FieldOrder() (clip.FieldOrder, bool) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, false
	}
	switch value := strings.ToLower(strings.TrimSpace(stream.FieldOrder)); value {
	case "", "unknown", "progressive":
		return 0, false
	default:
		order, err := clip.ParseFieldOrder(value)
		if err != nil {
			return 0, false
		}
		return order, true
	}
}

// FrameRate returns the stream's real frame rate, or 0 when unavailable.
func (r Result) FrameRate() float64 {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	if rate := parseRational(stream.RFrameRate); rate > 0 {
		return rate
	}
	return parseRational(stream.AvgFrameRate)
}

// FrameCount prefers the decoded count, then the container count, then an
// estimate from duration and frame rate. The boolean reports whether the
// count was exact.
func (r Result) FrameCount() (int, bool) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, false
	}
	for _, value := range []string{stream.NBReadFrames, stream.NBFrames} {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n, true
		}
	}
	duration := parseFloat(stream.Duration)
	if duration <= 0 || math.IsNaN(duration) {
		duration = r.DurationSeconds()
	}
	rate := r.FrameRate()
	if duration <= 0 || math.IsNaN(duration) || rate <= 0 {
		return 0, false
	}
	return int(math.Round(duration * rate)), false
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

func parseRational(value string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return parseFloat(num)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
