// Package youtube wraps the YouTube Data API v3 for the analysis pipeline.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/channel-insights/channel-analyzer-go/internal/metrics"
	"github.com/channel-insights/channel-analyzer-go/internal/validation"
	"github.com/channel-insights/channel-analyzer-go/pkg/logger"
)

// Quota costs per the YouTube Data API v3 pricing table.
const (
	quotaCostList   = 1   // channels.list, videos.list, videoCategories.list
	quotaCostSearch = 100 // search.list
)

const maxBatchSize = 50 // per-request cap on videos.list IDs and search pages

// ErrChannelNotFound is returned when all lookup tiers come back empty.
var ErrChannelNotFound = errors.New("channel not found")

var channelParts = []string{"snippet", "statistics", "topicDetails", "brandingSettings"}

// fallbackCategories covers the most common category IDs when the
// videoCategories endpoint is unavailable. The pipeline always has a table.
var fallbackCategories = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"19": "Travel & Events",
	"20": "Gaming",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
}

// Client wraps the YouTube Data API v3 client.
type Client struct {
	service *youtube.Service
}

// NewClient creates a new YouTube API client. Extra options are forwarded to
// the underlying service, which lets tests point it at a fake backend.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// FindChannel resolves a loose identifier (channel ID, legacy username or
// free text) to a full channel record. Three tiers are tried in order, first
// success wins:
//
//  1. channels.list by ID
//  2. channels.list by legacy username
//  3. search.list for a channel, then tier 1 again with the top hit's ID
//
// Returns ErrChannelNotFound when every tier comes back empty, along with the
// quota cost of all attempted calls.
func (c *Client) FindChannel(ctx context.Context, identifier string) (*youtube.Channel, int, error) {
	quotaCost := 0

	// Tier 1: direct channel ID
	quotaCost += quotaCostList
	if ch := c.channelByID(ctx, identifier); ch != nil {
		return ch, quotaCost, nil
	}

	// Tier 2: legacy username
	quotaCost += quotaCostList
	metrics.RecordAPICall("channels.list")
	resp, err := c.service.Channels.List(channelParts).ForUsername(identifier).Context(ctx).Do()
	if err == nil && len(resp.Items) > 0 {
		return resp.Items[0], quotaCost, nil
	}

	// Tier 3: channel search, then re-resolve the top hit by ID
	quotaCost += quotaCostSearch
	metrics.RecordAPICall("search.list")
	searchResp, err := c.service.Search.List([]string{"snippet"}).
		Q(identifier).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil || len(searchResp.Items) == 0 {
		return nil, quotaCost, ErrChannelNotFound
	}

	channelID := searchResp.Items[0].Id.ChannelId
	if !validation.IsValidChannelID(channelID) {
		return nil, quotaCost, ErrChannelNotFound
	}

	quotaCost += quotaCostList
	if ch := c.channelByID(ctx, channelID); ch != nil {
		return ch, quotaCost, nil
	}

	return nil, quotaCost, ErrChannelNotFound
}

func (c *Client) channelByID(ctx context.Context, channelID string) *youtube.Channel {
	metrics.RecordAPICall("channels.list")
	resp, err := c.service.Channels.List(channelParts).Id(channelID).Context(ctx).Do()
	if err != nil || len(resp.Items) == 0 {
		return nil
	}
	return resp.Items[0]
}

// ListChannelVideoIDs pages through a channel's videos in upload-date order,
// up to maxResults IDs. A failed page stops pagination and whatever was
// accumulated is returned; deciding whether zero videos is an error is left
// to the caller. The second return value is the quota cost of all pages.
func (c *Client) ListChannelVideoIDs(ctx context.Context, channelID string, maxResults int) ([]string, int) {
	var videoIDs []string
	quotaCost := 0
	pageToken := ""

	for len(videoIDs) < maxResults {
		pageSize := maxResults - len(videoIDs)
		if pageSize > maxBatchSize {
			pageSize = maxBatchSize
		}

		call := c.service.Search.List([]string{"snippet"}).
			ChannelId(channelID).
			Type("video").
			Order("date").
			MaxResults(int64(pageSize)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		quotaCost += quotaCostSearch
		metrics.RecordAPICall("search.list")
		resp, err := call.Do()
		if err != nil {
			logger.Log.Warn("Video listing page failed, returning partial result",
				zap.Error(err),
				zap.String("channelId", channelID),
				zap.Int("accumulated", len(videoIDs)),
			)
			break
		}

		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(videoIDs) > maxResults {
		videoIDs = videoIDs[:maxResults]
	}

	return videoIDs, quotaCost
}

// FetchVideoDetails looks up full statistics and content details for the
// given video IDs in batches of up to 50, concatenating results in request
// order. A batch whose request fails is dropped; remaining batches continue.
func (c *Client) FetchVideoDetails(ctx context.Context, videoIDs []string) ([]*youtube.Video, int) {
	var videos []*youtube.Video
	quotaCost := 0

	for _, batch := range batchVideoIDs(videoIDs, maxBatchSize) {
		quotaCost += quotaCostList
		metrics.RecordAPICall("videos.list")
		resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(batch...).
			Context(ctx).
			Do()
		if err != nil {
			logger.Log.Warn("Video detail batch failed, dropping batch",
				zap.Error(err),
				zap.Int("batchSize", len(batch)),
			)
			continue
		}
		videos = append(videos, resp.Items...)
	}

	return videos, quotaCost
}

// VideoCategories fetches the category ID to name mapping for a region. On
// any failure it substitutes the hardcoded fallback table; a category table
// is always available.
func (c *Client) VideoCategories(ctx context.Context, regionCode string) (map[string]string, int) {
	metrics.RecordAPICall("videoCategories.list")
	resp, err := c.service.VideoCategories.List([]string{"snippet"}).
		RegionCode(regionCode).
		Context(ctx).
		Do()
	if err != nil {
		logger.Log.Warn("Category listing failed, using fallback table",
			zap.Error(err),
			zap.String("regionCode", regionCode),
		)
		return fallbackCategories, 0
	}

	categories := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet != nil {
			categories[item.Id] = item.Snippet.Title
		}
	}

	return categories, quotaCostList
}

// batchVideoIDs splits a list of video IDs into batches of at most batchSize.
func batchVideoIDs(videoIDs []string, batchSize int) [][]string {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	var batches [][]string
	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batches = append(batches, videoIDs[i:end])
	}

	return batches
}
