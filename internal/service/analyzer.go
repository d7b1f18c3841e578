// Package service provides the channel analysis pipeline.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/channel-insights/channel-analyzer-go/internal/metrics"
	"github.com/channel-insights/channel-analyzer-go/internal/models"
	"github.com/channel-insights/channel-analyzer-go/internal/service/quota"
	"github.com/channel-insights/channel-analyzer-go/internal/service/youtube"
	"github.com/channel-insights/channel-analyzer-go/pkg/logger"
)

const (
	timestampLayout = "Jan 02, 2006, 03:04 PM"
	dateLayout      = "Jan 02, 2006"

	recentWindow    = 30 * hoursPerDay * time.Hour
	quarterWindow   = 90 * hoursPerDay * time.Hour
	unknownCategory = "Unknown"
)

// AnalyzerService runs the full channel analysis pipeline: URL resolution,
// channel lookup, video listing, batched detail fetch and enrichment.
type AnalyzerService struct {
	yt           *youtube.Client
	region       string
	quotaManager *quota.Manager
	publisher    *MessagePublisher
	now          func() time.Time
}

// NewAnalyzer creates an AnalyzerService. Quota accounting and event
// publishing are optional and attached via the Set methods.
func NewAnalyzer(yt *youtube.Client, region string) *AnalyzerService {
	if region == "" {
		region = "US"
	}
	return &AnalyzerService{
		yt:     yt,
		region: region,
		now:    time.Now,
	}
}

// SetQuotaManager attaches the API quota ledger (optional).
func (a *AnalyzerService) SetQuotaManager(m *quota.Manager) {
	a.quotaManager = m
}

// SetPublisher attaches the analysis event publisher (optional).
func (a *AnalyzerService) SetPublisher(p *MessagePublisher) {
	a.publisher = p
}

// SetClock overrides the wall-clock source used for the trailing 30/90 day
// windows, keeping enrichment deterministic in tests.
func (a *AnalyzerService) SetClock(now func() time.Time) {
	a.now = now
}

type videoDetail struct {
	video       *youtubeapi.Video
	publishedAt time.Time
}

// AnalyzeChannel resolves the channel behind req.ChannelURL and builds the
// enriched analysis report. The request must already be normalized.
func (a *AnalyzerService) AnalyzeChannel(ctx context.Context, req *models.ChannelAnalysisRequest) (*models.ChannelAnalysis, error) {
	identifier, err := youtube.ExtractChannelIdentifier(req.ChannelURL)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid YouTube channel URL"}
	}

	location, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, &ProcessingError{Message: fmt.Sprintf("unrecognized timezone %q", req.Timezone), Cause: err}
	}

	// Fetched fresh for every request; one table snapshot per report.
	categories, categoriesCost := a.yt.VideoCategories(ctx, a.region)

	channel, channelCost, err := a.yt.FindChannel(ctx, identifier)
	if err != nil {
		a.recordQuota(ctx, categoriesCost+channelCost)
		return nil, &NotFoundError{Message: "Channel not found or is private"}
	}

	videoIDs, listCost := a.yt.ListChannelVideoIDs(ctx, channel.Id, req.VideoCount)
	if len(videoIDs) == 0 {
		a.recordQuota(ctx, categoriesCost+channelCost+listCost)
		return nil, &NotFoundError{Message: "No videos found for this channel"}
	}

	rawVideos, detailCost := a.yt.FetchVideoDetails(ctx, videoIDs)
	a.recordQuota(ctx, categoriesCost+channelCost+listCost+detailCost)

	details, err := parsePublishInstants(rawVideos)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to parse video timestamps", Cause: err}
	}

	sortVideos(details, req.SortOrder)

	analysis, err := a.buildReport(channel, details, categories, location)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to build analysis report", Cause: err}
	}

	a.publishAnalysis(ctx, analysis)

	return analysis, nil
}

// parsePublishInstants resolves each video's publish timestamp up front so
// sorting and gap computation work on absolute instants.
func parsePublishInstants(videos []*youtubeapi.Video) ([]videoDetail, error) {
	details := make([]videoDetail, 0, len(videos))
	for _, v := range videos {
		if v.Snippet == nil {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("video %s: parse publishedAt %q: %w", v.Id, v.Snippet.PublishedAt, err)
		}
		details = append(details, videoDetail{video: v, publishedAt: publishedAt})
	}
	return details, nil
}

// sortVideos orders by publish instant, newest first or oldest first. The
// sort is stable so source order breaks ties.
func sortVideos(details []videoDetail, sortOrder string) {
	if sortOrder == models.SortOldest {
		sort.SliceStable(details, func(i, j int) bool {
			return details[i].publishedAt.Before(details[j].publishedAt)
		})
		return
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].publishedAt.After(details[j].publishedAt)
	})
}

func (a *AnalyzerService) buildReport(
	channel *youtubeapi.Channel,
	details []videoDetail,
	categories map[string]string,
	location *time.Location,
) (*models.ChannelAnalysis, error) {
	now := a.now()

	processed := make([]models.VideoInfo, 0, len(details))
	viewCounts := make([]int64, 0, len(details))

	var (
		previousInstant time.Time
		totalLikes      int64
		totalComments   int64
		totalViews      int64
		recentViews     int64
		last30          int
		last90          int
	)

	for _, d := range details {
		v := d.video

		var views, likes, comments int64
		if v.Statistics != nil {
			views = int64(v.Statistics.ViewCount)
			likes = int64(v.Statistics.LikeCount)
			comments = int64(v.Statistics.CommentCount)
		}

		duration := "0:00"
		if v.ContentDetails != nil {
			duration = formatDuration(v.ContentDetails.Duration)
		}

		gapHours, gapText := timeGap(d.publishedAt, previousInstant)

		category := unknownCategory
		if name, ok := categories[v.Snippet.CategoryId]; ok {
			category = name
		}

		age := now.Sub(d.publishedAt)
		if age <= recentWindow {
			recentViews += views
			last30++
		}
		if age <= quarterWindow {
			last90++
		}

		processed = append(processed, models.VideoInfo{
			ID:              v.Id,
			Title:           v.Snippet.Title,
			UploadDate:      d.publishedAt,
			UploadDateLocal: d.publishedAt.In(location).Format(timestampLayout),
			UploadDateUTC:   d.publishedAt.UTC().Format(timestampLayout),
			Duration:        duration,
			Views:           views,
			Likes:           likes,
			Comments:        comments,
			EngagementRate:  engagementRate(views, likes, comments),
			TimeGapHours:    round1(gapHours),
			TimeGapText:     gapText,
			ThumbnailURL:    fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", v.Id),
			Category:        category,
			CategoryID:      v.Snippet.CategoryId,
		})

		previousInstant = d.publishedAt
		viewCounts = append(viewCounts, views)
		totalLikes += likes
		totalComments += comments
		totalViews += views
	}

	channelInfo, err := a.buildChannelInfo(channel, viewCounts, recentViews, last30, last90, len(processed))
	if err != nil {
		return nil, err
	}

	var avgViews, avgLikes int64
	if len(processed) > 0 {
		avgViews = roundToInt(float64(totalViews) / float64(len(processed)))
		avgLikes = roundToInt(float64(totalLikes) / float64(len(processed)))
	}

	return &models.ChannelAnalysis{
		AnalysisID:        uuid.New(),
		ChannelInfo:       channelInfo,
		Videos:            processed,
		AnalysisTimestamp: now.UTC(),
		TotalLikes:        totalLikes,
		TotalComments:     totalComments,
		AvgViewsPerVideo:  avgViews,
		AvgLikesPerVideo:  avgLikes,
	}, nil
}

func (a *AnalyzerService) buildChannelInfo(
	channel *youtubeapi.Channel,
	viewCounts []int64,
	recentViews int64,
	last30, last90 int,
	processedCount int,
) (models.ChannelInfo, error) {
	var subscriberCount, channelViews, totalUploads int64
	if channel.Statistics != nil {
		subscriberCount = int64(channel.Statistics.SubscriberCount)
		channelViews = int64(channel.Statistics.ViewCount)
		totalUploads = int64(channel.Statistics.VideoCount)
	}
	if totalUploads == 0 {
		totalUploads = int64(processedCount)
	}

	var name, creationDate string
	if channel.Snippet != nil {
		name = channel.Snippet.Title
		createdAt, err := time.Parse(time.RFC3339, channel.Snippet.PublishedAt)
		if err != nil {
			return models.ChannelInfo{}, fmt.Errorf("parse channel publishedAt %q: %w", channel.Snippet.PublishedAt, err)
		}
		creationDate = createdAt.Format(dateLayout)
	}

	var topicCategories []string
	if channel.TopicDetails != nil {
		topicCategories = channel.TopicDetails.TopicCategories
	}

	return models.ChannelInfo{
		ID:                 channel.Id,
		Name:               name,
		CreationDate:       creationDate,
		SubscriberCount:    formatCount(subscriberCount),
		TotalViews:         channelViews,
		RecentViews30Days:  recentViews,
		TotalUploads:       totalUploads,
		PrimaryCategory:    primaryCategory(topicCategories),
		MonetizationStatus: monetizationStatus(subscriberCount, viewCounts),
		UploadFrequency: models.UploadFrequency{
			Last30Days: last30,
			Last90Days: last90,
		},
	}, nil
}

// recordQuota books the request's API cost against the daily ledger. Quota
// accounting never fails a request.
func (a *AnalyzerService) recordQuota(ctx context.Context, cost int) {
	metrics.AddQuotaCost(cost)

	if a.quotaManager == nil || cost == 0 {
		return
	}
	if err := a.quotaManager.RecordUsage(ctx, cost, "analyze_channel"); err != nil {
		logger.Log.Warn("Failed to record quota usage", zap.Error(err), zap.Int("cost", cost))
	}
}

// publishAnalysis emits a completion event for downstream consumers. Publish
// failures are logged, never surfaced to the caller.
func (a *AnalyzerService) publishAnalysis(ctx context.Context, analysis *models.ChannelAnalysis) {
	if a.publisher == nil {
		return
	}

	event := &models.AnalysisEvent{
		AnalysisID:    analysis.AnalysisID,
		ChannelID:     analysis.ChannelInfo.ID,
		ChannelName:   analysis.ChannelInfo.Name,
		VideoCount:    len(analysis.Videos),
		TotalLikes:    analysis.TotalLikes,
		TotalComments: analysis.TotalComments,
		GeneratedAt:   analysis.AnalysisTimestamp,
	}

	if err := a.publisher.PublishAnalysis(ctx, event); err != nil {
		logger.Log.Error("Failed to publish analysis event",
			zap.Error(err),
			zap.String("analysisId", event.AnalysisID.String()),
			zap.String("channelId", event.ChannelID),
		)
	}
}
