package clipping

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/creatorforge/nexus/internal/types"
)

// probeTimeout bounds a single metadata probe
const probeTimeout = 10 * time.Second

// Prober reads container metadata for a media file
type Prober interface {
	Probe(ctx context.Context, path string) (types.MediaMeta, error)
}

// FFprobe implements Prober by shelling out to ffprobe
type FFprobe struct {
	binary string
}

// NewFFprobe creates an ffprobe-backed Prober. An empty binary defaults
// to "ffprobe" on PATH.
func NewFFprobe(binary string) *FFprobe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary}
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// Probe executes ffprobe against the path and decodes the JSON response
func (f *FFprobe) Probe(ctx context.Context, path string) (types.MediaMeta, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return types.MediaMeta{}, fmt.Errorf("probe: empty path")
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binary,
		"-v", "error",
		"-show_entries", "format=duration,size",
		"-of", "json",
		"--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaMeta{}, fmt.Errorf("probe: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var parsed probeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return types.MediaMeta{}, fmt.Errorf("probe parse: %w", err)
	}

	duration := parseProbeFloat(parsed.Format.Duration)
	if duration <= 0 {
		return types.MediaMeta{}, fmt.Errorf("probe: no duration for %s", path)
	}

	size := parseProbeFloat(parsed.Format.Size)
	if math.IsNaN(size) || size < 0 {
		size = 0
	}

	return types.MediaMeta{
		Path:      path,
		Duration:  duration,
		SizeBytes: int64(size),
	}, nil
}

func parseProbeFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
