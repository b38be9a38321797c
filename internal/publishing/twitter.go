package publishing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/creatorforge/nexus/internal/types"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultTweetURL  = "https://api.twitter.com/2/tweets"

	// uploadChunkSize is the APPEND segment size for chunked media upload
	uploadChunkSize = 1 << 20

	// maxProcessingWait bounds how long we poll for media processing
	maxProcessingWait = 2 * time.Minute
)

// TwitterPublisher posts clips to Twitter/X: chunked v1.1 media upload
// followed by a v2 tweet referencing the media.
type TwitterPublisher struct {
	httpClient *http.Client
	uploadURL  string
	tweetURL   string
	configured bool
}

// NewTwitterPublisher creates a Twitter publisher. If any credential is
// empty the publisher is unconfigured and skips every post.
func NewTwitterPublisher(apiKey, apiSecret, accessToken, accessSecret string) *TwitterPublisher {
	p := &TwitterPublisher{
		uploadURL: defaultUploadURL,
		tweetURL:  defaultTweetURL,
	}
	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return p
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	p.httpClient = config.Client(oauth1.NoContext, token)
	p.configured = true
	return p
}

// Platform returns the platform identifier
func (p *TwitterPublisher) Platform() string { return "twitter" }

// Publish uploads the video and posts a tweet referencing it
func (p *TwitterPublisher) Publish(ctx context.Context, videoPath string, post PostDetails) types.PublishResult {
	result := types.PublishResult{Platform: p.Platform()}

	if !p.configured {
		result.Skipped = true
		result.Error = "Twitter credentials not configured"
		return result
	}

	mediaID, err := p.uploadMedia(ctx, videoPath)
	if err != nil {
		result.Error = fmt.Sprintf("media upload failed: %v", err)
		return result
	}

	tweetID, err := p.createTweet(ctx, post.Caption, mediaID)
	if err != nil {
		result.Error = fmt.Sprintf("tweet creation failed: %v", err)
		return result
	}

	result.Success = true
	result.URL = "https://twitter.com/i/status/" + tweetID
	return result
}

type mediaUploadResponse struct {
	MediaIDString  string `json:"media_id_string"`
	ProcessingInfo *struct {
		State           string `json:"state"`
		CheckAfterSecs  int    `json:"check_after_secs"`
		ProgressPercent int    `json:"progress_percent"`
		Error           *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"processing_info"`
}

// uploadMedia runs the INIT/APPEND/FINALIZE chunked upload protocol and
// waits for server-side processing to finish.
func (p *TwitterPublisher) uploadMedia(ctx context.Context, videoPath string) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video: %w", err)
	}

	mediaID, err := p.uploadInit(ctx, info.Size())
	if err != nil {
		return "", err
	}

	buf := make([]byte, uploadChunkSize)
	for segment := 0; ; segment++ {
		n, readErr := io.ReadFull(file, buf)
		if n > 0 {
			if err := p.uploadAppend(ctx, mediaID, segment, buf[:n]); err != nil {
				return "", err
			}
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read video: %w", readErr)
		}
	}

	return mediaID, p.uploadFinalize(ctx, mediaID)
}

func (p *TwitterPublisher) uploadInit(ctx context.Context, totalBytes int64) (string, error) {
	form := url.Values{
		"command":        {"INIT"},
		"media_type":     {"video/mp4"},
		"media_category": {"tweet_video"},
		"total_bytes":    {strconv.FormatInt(totalBytes, 10)},
	}

	var parsed mediaUploadResponse
	if err := p.postForm(ctx, form, &parsed); err != nil {
		return "", fmt.Errorf("INIT: %w", err)
	}
	if parsed.MediaIDString == "" {
		return "", fmt.Errorf("INIT: no media id in response")
	}
	return parsed.MediaIDString, nil
}

func (p *TwitterPublisher) uploadAppend(ctx context.Context, mediaID string, segment int, chunk []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("command", "APPEND")
	_ = writer.WriteField("media_id", mediaID)
	_ = writer.WriteField("segment_index", strconv.Itoa(segment))

	part, err := writer.CreateFormFile("media", "chunk")
	if err != nil {
		return fmt.Errorf("APPEND: %w", err)
	}
	if _, err := part.Write(chunk); err != nil {
		return fmt.Errorf("APPEND: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("APPEND: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, &body)
	if err != nil {
		return fmt.Errorf("APPEND: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("APPEND: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("APPEND: status %d: %s", resp.StatusCode, payload)
	}
	return nil
}

func (p *TwitterPublisher) uploadFinalize(ctx context.Context, mediaID string) error {
	form := url.Values{
		"command":  {"FINALIZE"},
		"media_id": {mediaID},
	}

	var parsed mediaUploadResponse
	if err := p.postForm(ctx, form, &parsed); err != nil {
		return fmt.Errorf("FINALIZE: %w", err)
	}
	if parsed.ProcessingInfo == nil {
		return nil
	}
	return p.waitForProcessing(ctx, mediaID, parsed)
}

// waitForProcessing polls STATUS until the media is ready
func (p *TwitterPublisher) waitForProcessing(ctx context.Context, mediaID string, current mediaUploadResponse) error {
	deadline := time.Now().Add(maxProcessingWait)

	for {
		info := current.ProcessingInfo
		if info == nil || info.State == "succeeded" {
			return nil
		}
		if info.State == "failed" {
			if info.Error != nil {
				return fmt.Errorf("media processing failed: %s", info.Error.Message)
			}
			return fmt.Errorf("media processing failed")
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("media processing timed out")
		}

		wait := time.Duration(info.CheckAfterSecs) * time.Second
		if wait <= 0 {
			wait = time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		statusURL := fmt.Sprintf("%s?command=STATUS&media_id=%s", p.uploadURL, url.QueryEscape(mediaID))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return fmt.Errorf("STATUS: %w", err)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("STATUS: %w", err)
		}
		current = mediaUploadResponse{}
		err = json.NewDecoder(resp.Body).Decode(&current)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("STATUS: %w", err)
		}
	}
}

// postForm sends a form-encoded request to the upload endpoint
func (p *TwitterPublisher) postForm(ctx context.Context, form url.Values, out *mediaUploadResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, payload)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// createTweet posts a v2 tweet referencing the uploaded media
func (p *TwitterPublisher) createTweet(ctx context.Context, caption, mediaID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"text": caption,
		"media": map[string]any{
			"media_ids": []string{mediaID},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tweetURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("no tweet id in response")
	}
	return parsed.Data.ID, nil
}
