// Package models contains the data models and DTOs for the channel analyzer service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SortOrder constants define the supported video sort orders.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// MonetizationStatus labels produced by the monetization heuristic. These are
// best-effort guesses from public signals, not factual determinations.
const (
	MonetizationLikely   = "Likely Monetized"
	MonetizationPossible = "Possibly Monetized"
	MonetizationUnknown  = "Unknown"
)

// ChannelAnalysisRequest represents the analyze-channel request body.
type ChannelAnalysisRequest struct {
	ChannelURL string `json:"channel_url" binding:"required,max=500"`
	VideoCount int    `json:"video_count" binding:"omitempty,min=1"`
	SortOrder  string `json:"sort_order" binding:"omitempty,oneof=newest oldest"`
	Timezone   string `json:"timezone" binding:"omitempty,max=64"`
}

// VideoInfo is one enriched video record in the analysis report.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoInfo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	UploadDate      time.Time `json:"upload_date"`
	UploadDateLocal string    `json:"upload_date_local"`
	UploadDateUTC   string    `json:"upload_date_utc"`
	Duration        string    `json:"duration"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	EngagementRate  float64   `json:"engagement_rate"`
	TimeGapHours    float64   `json:"time_gap_hours"`
	TimeGapText     string    `json:"time_gap_text"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Category        string    `json:"category"`
	CategoryID      string    `json:"category_id"`
}

// UploadFrequency counts videos published inside trailing windows. The windows
// overlap: a video from last week is counted in both.
type UploadFrequency struct {
	Last30Days int `json:"last_30_days"`
	Last90Days int `json:"last_90_days"`
}

// ChannelInfo is the enriched channel block of the analysis report. Subscriber
// count is rendered in abbreviated human form (12.3K); total views stays raw.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelInfo struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	CreationDate       string          `json:"creation_date"`
	SubscriberCount    string          `json:"subscriber_count"`
	TotalViews         int64           `json:"total_views"`
	RecentViews30Days  int64           `json:"recent_views_30_days"`
	TotalUploads       int64           `json:"total_uploads"`
	PrimaryCategory    string          `json:"primary_category"`
	MonetizationStatus string          `json:"monetization_status"`
	UploadFrequency    UploadFrequency `json:"upload_frequency"`
}

// ChannelAnalysis is the full analysis report returned to the caller.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelAnalysis struct {
	AnalysisID        uuid.UUID   `json:"analysis_id"`
	ChannelInfo       ChannelInfo `json:"channel_info"`
	Videos            []VideoInfo `json:"videos"`
	AnalysisTimestamp time.Time   `json:"analysis_timestamp"`
	TotalLikes        int64       `json:"total_likes"`
	TotalComments     int64       `json:"total_comments"`
	AvgViewsPerVideo  int64       `json:"avg_views_per_video"`
	AvgLikesPerVideo  int64       `json:"avg_likes_per_video"`
}

// AnalysisEvent is the compact message published after a completed analysis.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type AnalysisEvent struct {
	AnalysisID    uuid.UUID `json:"analysis_id"`
	ChannelID     string    `json:"channel_id"`
	ChannelName   string    `json:"channel_name"`
	VideoCount    int       `json:"video_count"`
	TotalLikes    int64     `json:"total_likes"`
	TotalComments int64     `json:"total_comments"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// QuotaInfo describes the current day's YouTube API quota usage.
type QuotaInfo struct {
	QuotaUsed       int `json:"quota_used"`
	QuotaLimit      int `json:"quota_limit"`
	QuotaRemaining  int `json:"quota_remaining"`
	OperationsCount int `json:"operations_count"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
