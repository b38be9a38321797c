package clipping

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// cutTimeout bounds a single segment re-encode
	cutTimeout = 60 * time.Second

	// availabilityTimeout bounds the ffmpeg presence check
	availabilityTimeout = 5 * time.Second
)

// Clipper cuts segments out of a source video
type Clipper interface {
	// Available reports whether the cutting tool can run at all
	Available(ctx context.Context) bool
	// Cut extracts [start, start+duration) from input into output
	Cut(ctx context.Context, input, output string, start, duration float64) error
}

// FFmpeg implements Clipper by shelling out to ffmpeg
type FFmpeg struct {
	binary string
}

// NewFFmpeg creates an ffmpeg-backed Clipper. An empty binary defaults
// to "ffmpeg" on PATH.
func NewFFmpeg(binary string) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// Available reports whether the ffmpeg binary runs
func (f *FFmpeg) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	return exec.CommandContext(ctx, f.binary, "-version").Run() == nil
}

// Cut re-encodes the segment with H.264 video and AAC audio so every
// clip is directly postable regardless of the source codec.
func (f *FFmpeg) Cut(ctx context.Context, input, output string, start, duration float64) error {
	ctx, cancel := context.WithTimeout(ctx, cutTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binary,
		"-i", input,
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-y",
		output)
	raw, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("cut %s: %w: %s", output, err, lastLine(raw))
	}

	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("cut %s: output missing: %w", output, err)
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// lastLine extracts the tail of ffmpeg's noisy stderr for error messages
func lastLine(raw []byte) string {
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
