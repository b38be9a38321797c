package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorforge/nexus/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_AppliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestCreateRun_AssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, "topic-a", "niche", "style", "goals")
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, "topic-b", "niche", "style", "goals")
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestGetRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.CreateRun(ctx, "AI gadgets", "tech", "sarcastic", "grow audience")
	require.NoError(t, err)

	script := &types.Script{
		Hook:              "the hook",
		Body:              "the body",
		Closing:           "the closing",
		FullText:          "the hook the body the closing",
		ShotCount:         2,
		Difficulty:        "easy",
		PropsNeeded:       []string{"smartphone", "tripod"},
		EstimatedDuration: "15 seconds",
	}
	require.NoError(t, s.AppendScript(ctx, runID, script))

	record, err := s.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.Equal(t, runID, record.RunID)
	assert.Equal(t, "AI gadgets", record.Topic)
	assert.Equal(t, "tech", record.Niche)
	assert.Equal(t, "sarcastic", record.Style)
	assert.Equal(t, "grow audience", record.Goals)
	assert.False(t, record.CreatedAt.IsZero())

	require.NotNil(t, record.Script)
	assert.Equal(t, "the hook", record.Script.Hook)
	assert.Equal(t, "the hook the body the closing", record.Script.FullText)
	assert.Equal(t, 2, record.Script.ShotCount)
	assert.Equal(t, []string{"smartphone", "tripod"}, record.Script.PropsNeeded)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetRun_WithoutScript(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.CreateRun(ctx, "t", "n", "s", "g")
	require.NoError(t, err)

	record, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Nil(t, record.Script)
}

func TestAppendScript_NilScript(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.AppendScript(context.Background(), 1, nil))
}

func TestAppendMedia_SkipsMockClips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.CreateRun(ctx, "t", "n", "s", "g")
	require.NoError(t, err)

	meta := types.MediaMeta{Path: "uploads/video.mp4", Duration: 45, SizeBytes: 1024}
	segments := []types.ClippedSegment{
		{ID: 1, Path: "shorts/short_1_15s.mp4", Filename: "short_1_15s.mp4", StartOffset: 0, Duration: 15, SizeBytes: 100, Posted: true,
			PublishResults: []types.PublishResult{{Platform: "twitter", Success: true, URL: "https://t.co/x"}}},
		{ID: 2, Path: "[MOCK] User needs to shoot video", IsMock: true},
		{ID: 3, Path: "shorts/short_3_15s.mp4", Filename: "short_3_15s.mp4", StartOffset: 30, Duration: 15, SizeBytes: 90},
	}

	batchID, err := s.AppendMedia(ctx, runID, meta, segments)
	require.NoError(t, err)
	assert.Greater(t, batchID, int64(0))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM clips WHERE batch_id = ?", batchID).Scan(&count))
	assert.Equal(t, 2, count)

	var postURL string
	require.NoError(t, s.db.QueryRow(
		"SELECT post_url FROM clips WHERE batch_id = ? AND clip_path = ?",
		batchID, "shorts/short_1_15s.mp4").Scan(&postURL))
	assert.Equal(t, "https://t.co/x", postURL)
}

func TestAppendOutreach_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.CreateRun(ctx, "t", "n", "s", "g")
	require.NoError(t, err)

	offers := []types.OutreachOffer{
		{PartnerName: "Skillshare", ContactURL: "skillshare.com", Rationale: "fits", MessageDraft: "hi", PartnershipType: "sponsored video", ScriptIncluded: true},
		{PartnerName: "NordVPN", ContactURL: "nordvpn.com", Rationale: "fits", MessageDraft: "hello", PartnershipType: "promo code"},
	}
	require.NoError(t, s.AppendOutreach(ctx, runID, offers))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM outreach_offers WHERE run_id = ?", runID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestListRecent_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 7; i++ {
		id, err := s.CreateRun(ctx, fmt.Sprintf("topic-%d", i), "n", "s", "g")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	records, err := s.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, ids[6], records[0].RunID)
	assert.Equal(t, "topic-6", records[0].Topic)
	assert.Equal(t, ids[2], records[4].RunID)
}

func TestListRecent_DefaultLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := s.CreateRun(ctx, "t", "n", "s", "g")
		require.NoError(t, err)
	}

	records, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestListRecent_IncludesScripts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	withScript, err := s.CreateRun(ctx, "scripted", "n", "s", "g")
	require.NoError(t, err)
	require.NoError(t, s.AppendScript(ctx, withScript, &types.Script{Hook: "h", FullText: "f"}))

	_, err = s.CreateRun(ctx, "bare", "n", "s", "g")
	require.NoError(t, err)

	records, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Nil(t, records[0].Script)
	require.NotNil(t, records[1].Script)
	assert.Equal(t, "h", records[1].Script.Hook)
}
