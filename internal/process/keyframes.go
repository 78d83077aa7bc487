package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// KeyframeHeader opens every keyframe file.
const KeyframeHeader = "# keyframe format v1"

// WriteKeyframes writes frames in keyframe format v1.
func WriteKeyframes(w io.Writer, frames []int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\nfps 0\n", KeyframeHeader)
	for _, frame := range frames {
		fmt.Fprintf(bw, "%d\n", frame)
	}
	return bw.Flush()
}

// WriteKeyframesFile writes frames to path, creating parent directories.
func WriteKeyframesFile(path string, frames []int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create keyframe directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create keyframe file: %w", err)
	}
	if err := WriteKeyframes(f, frames); err != nil {
		_ = f.Close()
		return fmt.Errorf("write keyframes: %w", err)
	}
	return f.Close()
}
