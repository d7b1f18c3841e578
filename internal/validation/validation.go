// Package validation normalizes analysis requests and checks YouTube ID formats.
package validation

import (
	"fmt"
	"regexp"

	"github.com/channel-insights/channel-analyzer-go/internal/models"
)

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// Normalizer applies defaults and bounds to incoming analysis requests.
type Normalizer struct {
	defaultVideoCount int
	maxVideoCount     int
	defaultSortOrder  string
	defaultTimezone   string
}

// NewNormalizer creates a Normalizer with the configured defaults and bounds.
func NewNormalizer(defaultVideoCount, maxVideoCount int, defaultSortOrder, defaultTimezone string) *Normalizer {
	if defaultVideoCount <= 0 {
		defaultVideoCount = 20
	}
	if maxVideoCount <= 0 {
		maxVideoCount = 500
	}
	if defaultSortOrder == "" {
		defaultSortOrder = models.SortNewest
	}
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &Normalizer{
		defaultVideoCount: defaultVideoCount,
		maxVideoCount:     maxVideoCount,
		defaultSortOrder:  defaultSortOrder,
		defaultTimezone:   defaultTimezone,
	}
}

// Normalize fills in defaults, clamps the video count to the configured
// maximum and rejects unsupported sort orders.
func (n *Normalizer) Normalize(req *models.ChannelAnalysisRequest) error {
	if req.VideoCount <= 0 {
		req.VideoCount = n.defaultVideoCount
	}
	if req.VideoCount > n.maxVideoCount {
		req.VideoCount = n.maxVideoCount
	}

	if req.SortOrder == "" {
		req.SortOrder = n.defaultSortOrder
	}
	if req.SortOrder != models.SortNewest && req.SortOrder != models.SortOldest {
		return fmt.Errorf("invalid sort order: %s", req.SortOrder)
	}

	if req.Timezone == "" {
		req.Timezone = n.defaultTimezone
	}

	return nil
}

// IsValidVideoID reports whether the string looks like a YouTube video ID.
func IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}

// IsValidChannelID reports whether the string looks like a canonical channel ID.
func IsValidChannelID(channelID string) bool {
	return channelIDRegex.MatchString(channelID)
}
