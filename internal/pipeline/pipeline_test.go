package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorforge/nexus/internal/store"
	"github.com/creatorforge/nexus/internal/types"
)

type fakeStore struct {
	nextRunID     int64
	createErr     error
	scriptErr     error
	mediaErr      error
	outreachErr   error
	getRunRecord  *store.RunRecord
	getRunErr     error
	createdRuns   int
	savedScripts  []*types.Script
	savedMedia    []types.MediaMeta
	savedClips    [][]types.ClippedSegment
	savedOutreach [][]types.OutreachOffer
}

func (f *fakeStore) CreateRun(_ context.Context, _, _, _, _ string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.createdRuns++
	if f.nextRunID == 0 {
		f.nextRunID = 1
	}
	return f.nextRunID, nil
}

func (f *fakeStore) AppendScript(_ context.Context, _ int64, script *types.Script) error {
	if f.scriptErr != nil {
		return f.scriptErr
	}
	f.savedScripts = append(f.savedScripts, script)
	return nil
}

func (f *fakeStore) AppendMedia(_ context.Context, _ int64, meta types.MediaMeta, segments []types.ClippedSegment) (int64, error) {
	if f.mediaErr != nil {
		return 0, f.mediaErr
	}
	f.savedMedia = append(f.savedMedia, meta)
	f.savedClips = append(f.savedClips, segments)
	return int64(len(f.savedMedia)), nil
}

func (f *fakeStore) AppendOutreach(_ context.Context, _ int64, offers []types.OutreachOffer) error {
	if f.outreachErr != nil {
		return f.outreachErr
	}
	f.savedOutreach = append(f.savedOutreach, offers)
	return nil
}

func (f *fakeStore) GetRun(_ context.Context, _ int64) (*store.RunRecord, error) {
	return f.getRunRecord, f.getRunErr
}

type fakeDiscovery struct {
	trends []types.Trend
	calls  int
}

func (f *fakeDiscovery) Run(_ context.Context, _ *types.PipelineState) []types.Trend {
	f.calls++
	return f.trends
}

type fakeScripting struct {
	script *types.Script
	calls  int
}

func (f *fakeScripting) Run(_ context.Context, _ *types.PipelineState) *types.Script {
	f.calls++
	return f.script
}

type fakeClipping struct {
	clips []types.ClippedSegment
	seen  *types.PipelineState
}

func (f *fakeClipping) Run(_ context.Context, state *types.PipelineState) []types.ClippedSegment {
	f.seen = state
	return f.clips
}

type fakeOutreach struct {
	offers []types.OutreachOffer
	seen   *types.PipelineState
}

func (f *fakeOutreach) Run(_ context.Context, state *types.PipelineState) []types.OutreachOffer {
	f.seen = state
	return f.offers
}

func someTrends() []types.Trend {
	return []types.Trend{{Title: "t", URL: "u", Summary: "s"}}
}

func someScript() *types.Script {
	return &types.Script{Hook: "h", Body: "b", Closing: "c", FullText: "h b c"}
}

func testInputs() Inputs {
	return Inputs{Topic: "AI gadgets", Niche: "tech", Style: "sarcastic", Goals: "grow"}
}

func TestRunPhase1_SuspendsWithRunID(t *testing.T) {
	st := &fakeStore{nextRunID: 42}
	discovery := &fakeDiscovery{trends: someTrends()}
	scripting := &fakeScripting{script: someScript()}
	p := New(st, discovery, scripting, nil, nil, nil)

	result, err := p.RunPhase1(context.Background(), testInputs())
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.RunID)
	assert.False(t, result.State.Failed())
	assert.Equal(t, someTrends(), result.State.DiscoveredItems)
	assert.Equal(t, "h b c", result.State.Script.FullText)
	require.Len(t, st.savedScripts, 1)
	assert.Equal(t, 1, st.createdRuns)
}

func TestRunPhase1_NoTrendsFailsAtDiscovery(t *testing.T) {
	st := &fakeStore{}
	scripting := &fakeScripting{script: someScript()}
	p := New(st, &fakeDiscovery{}, scripting, nil, nil, nil)

	result, err := p.RunPhase1(context.Background(), testInputs())
	require.NoError(t, err)

	require.True(t, result.State.Failed())
	assert.Equal(t, StageDiscovery, result.State.Failure.Stage)
	assert.Zero(t, result.RunID)
	assert.Zero(t, scripting.calls, "writing must not run after discovery failure")
	assert.Zero(t, st.createdRuns, "failed runs are not persisted")
}

func TestRunPhase1_TrendsAlwaysReachWriting(t *testing.T) {
	scripting := &fakeScripting{script: someScript()}
	p := New(&fakeStore{}, &fakeDiscovery{trends: someTrends()}, scripting, nil, nil, nil)

	_, err := p.RunPhase1(context.Background(), testInputs())
	require.NoError(t, err)
	assert.Equal(t, 1, scripting.calls)
}

func TestRunPhase1_EmptyScriptFailsAtWriting(t *testing.T) {
	st := &fakeStore{}
	scripting := &fakeScripting{script: &types.Script{Hook: "h"}}
	p := New(st, &fakeDiscovery{trends: someTrends()}, scripting, nil, nil, nil)

	result, err := p.RunPhase1(context.Background(), testInputs())
	require.NoError(t, err)

	require.True(t, result.State.Failed())
	assert.Equal(t, StageWriting, result.State.Failure.Stage)
	assert.Zero(t, st.createdRuns)
}

func TestRunPhase1_CreateRunFailureIsHardError(t *testing.T) {
	st := &fakeStore{createErr: errors.New("disk full")}
	p := New(st, &fakeDiscovery{trends: someTrends()}, &fakeScripting{script: someScript()}, nil, nil, nil)

	_, err := p.RunPhase1(context.Background(), testInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create run")
}

func TestRunPhase1_AppendScriptFailureIsHardError(t *testing.T) {
	st := &fakeStore{scriptErr: errors.New("disk full")}
	p := New(st, &fakeDiscovery{trends: someTrends()}, &fakeScripting{script: someScript()}, nil, nil, nil)

	_, err := p.RunPhase1(context.Background(), testInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist script")
}

func suspendedRecord() *store.RunRecord {
	return &store.RunRecord{
		RunID:  7,
		Topic:  "AI gadgets",
		Niche:  "tech",
		Style:  "sarcastic",
		Goals:  "grow",
		Script: someScript(),
	}
}

func TestRunPhase2_RehydratesAndCompletes(t *testing.T) {
	st := &fakeStore{getRunRecord: suspendedRecord()}
	clips := []types.ClippedSegment{{ID: 1, Path: "shorts/a.mp4", Duration: 15}}
	offers := []types.OutreachOffer{{PartnerName: "Skillshare"}}
	clipStage := &fakeClipping{clips: clips}
	outreachStage := &fakeOutreach{offers: offers}
	p := New(st, nil, nil, clipStage, outreachStage, nil)

	state, err := p.RunPhase2(context.Background(), 7, "uploads/video.mp4")
	require.NoError(t, err)

	assert.False(t, state.Failed())
	assert.Equal(t, clips, state.ClippedSegments)
	assert.Equal(t, offers, state.OutreachOffers)

	// clipping saw the rehydrated state
	require.NotNil(t, clipStage.seen)
	assert.Equal(t, "AI gadgets", clipStage.seen.Topic)
	assert.Equal(t, "uploads/video.mp4", clipStage.seen.MediaAssetPath)
	require.NotNil(t, clipStage.seen.Script)

	// outreach saw the clips
	require.NotNil(t, outreachStage.seen)
	assert.Equal(t, clips, outreachStage.seen.ClippedSegments)

	require.Len(t, st.savedMedia, 1)
	assert.Equal(t, "uploads/video.mp4", st.savedMedia[0].Path)
	require.Len(t, st.savedOutreach, 1)
}

func TestRunPhase2_MockClipsSkipMediaPersistence(t *testing.T) {
	st := &fakeStore{getRunRecord: suspendedRecord()}
	mockClips := []types.ClippedSegment{{ID: 1, IsMock: true}, {ID: 2, IsMock: true}}
	p := New(st, nil, nil, &fakeClipping{clips: mockClips}, &fakeOutreach{offers: []types.OutreachOffer{{PartnerName: "x"}}}, nil)

	state, err := p.RunPhase2(context.Background(), 7, "")
	require.NoError(t, err)

	assert.NotEmpty(t, state.ClippedSegments)
	assert.NotEmpty(t, state.OutreachOffers)
	assert.Empty(t, st.savedMedia, "mock batches are not persisted")
	require.Len(t, st.savedOutreach, 1)
}

func TestRunPhase2_UnknownRunIsHardError(t *testing.T) {
	st := &fakeStore{getRunErr: errors.New("run 99 not found")}
	p := New(st, nil, nil, &fakeClipping{}, &fakeOutreach{}, nil)

	_, err := p.RunPhase2(context.Background(), 99, "x.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rehydrate")
}

func TestRunPhase2_MediaWriteFailureIsHardError(t *testing.T) {
	st := &fakeStore{getRunRecord: suspendedRecord(), mediaErr: errors.New("disk full")}
	clips := []types.ClippedSegment{{ID: 1, Path: "a.mp4"}}
	p := New(st, nil, nil, &fakeClipping{clips: clips}, &fakeOutreach{}, nil)

	_, err := p.RunPhase2(context.Background(), 7, "v.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist media")
}

func TestRunPhase2_OutreachWriteFailureIsHardError(t *testing.T) {
	st := &fakeStore{getRunRecord: suspendedRecord(), outreachErr: errors.New("disk full")}
	p := New(st, nil, nil, &fakeClipping{clips: []types.ClippedSegment{{IsMock: true}}}, &fakeOutreach{}, nil)

	_, err := p.RunPhase2(context.Background(), 7, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist outreach")
}

func TestRunFull_HappyPath(t *testing.T) {
	st := &fakeStore{nextRunID: 5, getRunRecord: suspendedRecord()}
	clips := []types.ClippedSegment{{ID: 1, Path: "a.mp4"}}
	p := New(st,
		&fakeDiscovery{trends: someTrends()},
		&fakeScripting{script: someScript()},
		&fakeClipping{clips: clips},
		&fakeOutreach{offers: []types.OutreachOffer{{PartnerName: "x"}}},
		nil)

	state, err := p.RunFull(context.Background(), testInputs(), "v.mp4")
	require.NoError(t, err)
	assert.False(t, state.Failed())
	assert.NotEmpty(t, state.ClippedSegments)
	assert.NotEmpty(t, state.OutreachOffers)
}

func TestRunFull_StopsAtPhase1Failure(t *testing.T) {
	st := &fakeStore{}
	clipStage := &fakeClipping{}
	p := New(st, &fakeDiscovery{}, &fakeScripting{script: someScript()}, clipStage, &fakeOutreach{}, nil)

	state, err := p.RunFull(context.Background(), testInputs(), "v.mp4")
	require.NoError(t, err)
	require.True(t, state.Failed())
	assert.Equal(t, StageDiscovery, state.Failure.Stage)
	assert.Nil(t, clipStage.seen, "phase 2 must not run after a phase 1 failure")
}
