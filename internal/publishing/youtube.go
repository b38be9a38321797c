package publishing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/creatorforge/nexus/internal/types"
)

// youtubeCategoryPeopleBlogs is the YouTube category ID for People & Blogs
const youtubeCategoryPeopleBlogs = "22"

// youtubeToken is the stored OAuth credential format: client identity plus
// a long-lived refresh token obtained out of band.
type youtubeToken struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// YouTubePublisher uploads clips as YouTube Shorts via the Data API v3
type YouTubePublisher struct {
	tokenPath string

	// newService is swappable in tests
	newService func(ctx context.Context) (*youtube.Service, error)
}

// NewYouTubePublisher creates a YouTube publisher reading OAuth credentials
// from tokenPath. An empty path means uploads are skipped.
func NewYouTubePublisher(tokenPath string) *YouTubePublisher {
	p := &YouTubePublisher{tokenPath: tokenPath}
	p.newService = p.buildService
	return p
}

// Platform returns the platform identifier
func (p *YouTubePublisher) Platform() string { return "youtube" }

// Publish uploads the video with a resumable media upload
func (p *YouTubePublisher) Publish(ctx context.Context, videoPath string, post PostDetails) types.PublishResult {
	result := types.PublishResult{Platform: p.Platform()}

	if p.tokenPath == "" {
		result.Skipped = true
		result.Error = "YouTube credentials not configured"
		return result
	}
	if _, err := os.Stat(p.tokenPath); err != nil {
		result.Skipped = true
		result.Error = fmt.Sprintf("YouTube token not found at %s", p.tokenPath)
		return result
	}

	service, err := p.newService(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create YouTube service: %v", err)
		return result
	}

	file, err := os.Open(videoPath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to open video: %v", err)
		return result
	}
	defer func() { _ = file.Close() }()

	privacy := post.PrivacyStatus
	if privacy == "" {
		privacy = "public"
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       post.Title,
			Description: post.Description,
			Tags:        []string{"shorts", "viral", "ai-generated"},
			CategoryId:  youtubeCategoryPeopleBlogs,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	uploaded, err := call.Media(file, googleapi.ContentType("video/mp4")).Context(ctx).Do()
	if err != nil {
		result.Error = fmt.Sprintf("upload failed: %v", err)
		return result
	}

	result.Success = true
	result.URL = "https://www.youtube.com/watch?v=" + uploaded.Id
	return result
}

// buildService constructs an authenticated YouTube client from the stored
// refresh token
func (p *YouTubePublisher) buildService(ctx context.Context) (*youtube.Service, error) {
	data, err := os.ReadFile(p.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token youtubeToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if token.ClientID == "" || token.ClientSecret == "" || token.RefreshToken == "" {
		return nil, fmt.Errorf("token file is missing client_id, client_secret, or refresh_token")
	}

	config := &oauth2.Config{
		ClientID:     token.ClientID,
		ClientSecret: token.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	source := config.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})

	return youtube.NewService(ctx, option.WithTokenSource(source))
}
