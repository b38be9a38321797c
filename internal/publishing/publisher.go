// Package publishing posts rendered clips to social platforms.
//
// Each publisher degrades gracefully: missing credentials produce a
// skipped result rather than an error, so a run without platform keys
// still completes with unposted clips.
package publishing

import (
	"context"

	"github.com/creatorforge/nexus/internal/types"
)

// PostDetails carries the per-clip metadata a platform post needs
type PostDetails struct {
	Caption       string
	Title         string
	Description   string
	PrivacyStatus string
}

// Publisher posts one clip to one platform
type Publisher interface {
	// Platform returns the platform identifier recorded on publish results
	Platform() string
	// Publish posts the video. Failures are reported in the result, not as
	// an error: a failed post never aborts clipping.
	Publish(ctx context.Context, videoPath string, post PostDetails) types.PublishResult
}
