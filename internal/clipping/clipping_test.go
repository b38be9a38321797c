package clipping

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorforge/nexus/internal/publishing"
	"github.com/creatorforge/nexus/internal/types"
)

type fakeProber struct {
	meta types.MediaMeta
	err  error
}

func (f *fakeProber) Probe(_ context.Context, path string) (types.MediaMeta, error) {
	meta := f.meta
	meta.Path = path
	return meta, f.err
}

type fakeClipper struct {
	available bool
	cutErr    error
	cuts      []Segment
}

func (f *fakeClipper) Available(_ context.Context) bool { return f.available }

func (f *fakeClipper) Cut(_ context.Context, _, output string, start, duration float64) error {
	if f.cutErr != nil {
		return f.cutErr
	}
	f.cuts = append(f.cuts, Segment{Start: start, Duration: duration})
	return os.WriteFile(output, []byte("clip bytes"), 0o644)
}

type fakePublisher struct {
	platform string
	result   types.PublishResult
	posts    []publishing.PostDetails
}

func (f *fakePublisher) Platform() string { return f.platform }

func (f *fakePublisher) Publish(_ context.Context, _ string, post publishing.PostDetails) types.PublishResult {
	f.posts = append(f.posts, post)
	result := f.result
	result.Platform = f.platform
	return result
}

func writeSourceVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "footage.mp4")
	require.NoError(t, os.WriteFile(path, []byte("source"), 0o644))
	return path
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		ClipDir:     filepath.Join(t.TempDir(), "shorts"),
		MinSeconds:  15,
		MaxSeconds:  60,
		TargetCount: 3,
	}
}

func TestRun_CutsAndPublishes(t *testing.T) {
	prober := &fakeProber{meta: types.MediaMeta{Duration: 45}}
	clipper := &fakeClipper{available: true}
	publisher := &fakePublisher{platform: "twitter", result: types.PublishResult{Success: true, URL: "https://t.co/x"}}

	stage := NewStage(prober, clipper, []publishing.Publisher{publisher}, testOptions(t))
	state := &types.PipelineState{
		Topic:          "AI gadgets",
		MediaAssetPath: writeSourceVideo(t),
		Script:         &types.Script{Hook: "the hook", FullText: "the whole script"},
	}

	clips := stage.Run(context.Background(), state)
	require.Len(t, clips, 3)

	for i, clip := range clips {
		assert.False(t, clip.IsMock)
		assert.True(t, clip.Posted)
		assert.Equal(t, i+1, clip.ID)
		assert.FileExists(t, clip.Path)
		assert.Greater(t, clip.SizeBytes, int64(0))
		require.Len(t, clip.PublishResults, 1)
		assert.True(t, clip.PublishResults[0].Success)
	}

	require.Len(t, publisher.posts, 3)
	assert.Contains(t, publisher.posts[0].Caption, "AI gadgets | Clip 1")
	assert.Contains(t, publisher.posts[0].Caption, "the hook")
	assert.Contains(t, publisher.posts[0].Caption, "#AIgadgets")
	assert.Contains(t, publisher.posts[0].Description, "the whole script")
	assert.Equal(t, "AI gadgets - Short #1", publisher.posts[0].Title)
}

func TestRun_NoMediaYieldsMockClips(t *testing.T) {
	stage := NewStage(&fakeProber{}, &fakeClipper{available: true}, nil, testOptions(t))
	clips := stage.Run(context.Background(), &types.PipelineState{Topic: "t"})

	require.Len(t, clips, 3)
	for _, clip := range clips {
		assert.True(t, clip.IsMock)
		assert.False(t, clip.Posted)
		assert.Equal(t, MockPathPlaceholder, clip.Path)
	}
}

func TestRun_MissingFileYieldsMockClips(t *testing.T) {
	stage := NewStage(&fakeProber{}, &fakeClipper{available: true}, nil, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: "/does/not/exist.mp4"}

	clips := stage.Run(context.Background(), state)
	require.Len(t, clips, 3)
	assert.True(t, clips[0].IsMock)
}

func TestRun_ClipperUnavailableYieldsMockClips(t *testing.T) {
	stage := NewStage(&fakeProber{meta: types.MediaMeta{Duration: 45}}, &fakeClipper{available: false}, nil, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t)}

	clips := stage.Run(context.Background(), state)
	assert.True(t, clips[0].IsMock)
}

func TestRun_ProbeFailureYieldsMockClips(t *testing.T) {
	prober := &fakeProber{err: errors.New("probe exploded")}
	stage := NewStage(prober, &fakeClipper{available: true}, nil, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t)}

	clips := stage.Run(context.Background(), state)
	assert.True(t, clips[0].IsMock)
}

func TestRun_ShortVideoYieldsMockClips(t *testing.T) {
	prober := &fakeProber{meta: types.MediaMeta{Duration: 10}}
	stage := NewStage(prober, &fakeClipper{available: true}, nil, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t)}

	clips := stage.Run(context.Background(), state)
	require.Len(t, clips, 3)
	assert.True(t, clips[0].IsMock)
}

func TestRun_AllCutsFailYieldsMockClips(t *testing.T) {
	prober := &fakeProber{meta: types.MediaMeta{Duration: 45}}
	clipper := &fakeClipper{available: true, cutErr: errors.New("encode failed")}
	stage := NewStage(prober, clipper, nil, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t)}

	clips := stage.Run(context.Background(), state)
	assert.True(t, clips[0].IsMock)
}

func TestRun_SkippedPublishLeavesClipUnposted(t *testing.T) {
	prober := &fakeProber{meta: types.MediaMeta{Duration: 45}}
	clipper := &fakeClipper{available: true}
	publisher := &fakePublisher{platform: "youtube", result: types.PublishResult{Skipped: true, Error: "no creds"}}

	stage := NewStage(prober, clipper, []publishing.Publisher{publisher}, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t), Script: &types.Script{}}

	clips := stage.Run(context.Background(), state)
	require.Len(t, clips, 3)
	for _, clip := range clips {
		assert.False(t, clip.Posted)
		require.Len(t, clip.PublishResults, 1)
		assert.True(t, clip.PublishResults[0].Skipped)
	}
}

func TestRun_OneSuccessMarksPosted(t *testing.T) {
	prober := &fakeProber{meta: types.MediaMeta{Duration: 45}}
	clipper := &fakeClipper{available: true}
	twitter := &fakePublisher{platform: "twitter", result: types.PublishResult{Skipped: true}}
	yt := &fakePublisher{platform: "youtube", result: types.PublishResult{Success: true}}

	stage := NewStage(prober, clipper, []publishing.Publisher{twitter, yt}, testOptions(t))
	state := &types.PipelineState{MediaAssetPath: writeSourceVideo(t), Script: &types.Script{}}

	clips := stage.Run(context.Background(), state)
	for _, clip := range clips {
		assert.True(t, clip.Posted)
		assert.Len(t, clip.PublishResults, 2)
	}
}

func TestMockClips_Shape(t *testing.T) {
	clips := MockClips()
	require.Len(t, clips, 3)
	assert.Equal(t, "short_1_15s.mp4", clips[0].Filename)
	assert.Equal(t, float64(30), clips[1].Duration)
	assert.Equal(t, float64(45), clips[2].StartOffset)
}
