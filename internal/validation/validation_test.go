package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channel-insights/channel-analyzer-go/internal/models"
)

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer(20, 500, models.SortNewest, "UTC")

	req := &models.ChannelAnalysisRequest{ChannelURL: "https://www.youtube.com/@creator"}
	require.NoError(t, n.Normalize(req))

	assert.Equal(t, 20, req.VideoCount)
	assert.Equal(t, models.SortNewest, req.SortOrder)
	assert.Equal(t, "UTC", req.Timezone)
}

func TestNormalizeClampsVideoCount(t *testing.T) {
	n := NewNormalizer(20, 500, models.SortNewest, "UTC")

	req := &models.ChannelAnalysisRequest{
		ChannelURL: "https://www.youtube.com/@creator",
		VideoCount: 10000,
	}
	require.NoError(t, n.Normalize(req))
	assert.Equal(t, 500, req.VideoCount)

	req.VideoCount = -3
	require.NoError(t, n.Normalize(req))
	assert.Equal(t, 20, req.VideoCount)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	n := NewNormalizer(20, 500, models.SortNewest, "UTC")

	req := &models.ChannelAnalysisRequest{
		ChannelURL: "https://www.youtube.com/@creator",
		VideoCount: 50,
		SortOrder:  models.SortOldest,
		Timezone:   "Asia/Tokyo",
	}
	require.NoError(t, n.Normalize(req))

	assert.Equal(t, 50, req.VideoCount)
	assert.Equal(t, models.SortOldest, req.SortOrder)
	assert.Equal(t, "Asia/Tokyo", req.Timezone)
}

func TestNormalizeRejectsBadSortOrder(t *testing.T) {
	n := NewNormalizer(20, 500, models.SortNewest, "UTC")

	req := &models.ChannelAnalysisRequest{
		ChannelURL: "https://www.youtube.com/@creator",
		SortOrder:  "popular",
	}
	assert.Error(t, n.Normalize(req))
}

func TestIsValidVideoID(t *testing.T) {
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.False(t, IsValidVideoID("short"))
	assert.False(t, IsValidVideoID("waaaaay-too-long-for-an-id"))
	assert.False(t, IsValidVideoID("bad char !!!"))
}

func TestIsValidChannelID(t *testing.T) {
	assert.True(t, IsValidChannelID("UC_x5XG1OV2P6uZZ5FSM9Ttw"))
	assert.False(t, IsValidChannelID("GoogleDevelopers"))
	assert.False(t, IsValidChannelID("UCshort"))
}
