package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channel-insights/channel-analyzer-go/internal/models"
	"github.com/channel-insights/channel-analyzer-go/internal/service"
	"github.com/channel-insights/channel-analyzer-go/internal/validation"
)

type stubAnalyzer struct {
	analysis *models.ChannelAnalysis
	err      error
	gotReq   *models.ChannelAnalysisRequest
}

func (s *stubAnalyzer) AnalyzeChannel(_ context.Context, req *models.ChannelAnalysisRequest) (*models.ChannelAnalysis, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func newTestRouter(analyzer ChannelAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	normalizer := validation.NewNormalizer(20, 500, models.SortNewest, "UTC")
	h := NewAnalyzeHandler(analyzer, normalizer)

	router := gin.New()
	router.GET("/api/v1/", h.HandleRoot)
	router.POST("/api/v1/channels/analyze", h.HandleAnalyzeChannel)
	return router
}

func postAnalyze(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/channels/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAnalyzeChannelSuccess(t *testing.T) {
	stub := &stubAnalyzer{
		analysis: &models.ChannelAnalysis{
			AnalysisID: uuid.New(),
			ChannelInfo: models.ChannelInfo{
				ID:   "UC_x5XG1OV2P6uZZ5FSM9Ttw",
				Name: "Test Channel",
			},
			AnalysisTimestamp: time.Now().UTC(),
		},
	}
	router := newTestRouter(stub)

	w := postAnalyze(router, `{"channel_url":"https://www.youtube.com/@creator","video_count":5}`)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.ChannelAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, stub.analysis.AnalysisID, got.AnalysisID)
	assert.Equal(t, "Test Channel", got.ChannelInfo.Name)

	// Normalization ran before the analyzer saw the request.
	require.NotNil(t, stub.gotReq)
	assert.Equal(t, 5, stub.gotReq.VideoCount)
	assert.Equal(t, models.SortNewest, stub.gotReq.SortOrder)
	assert.Equal(t, "UTC", stub.gotReq.Timezone)
}

func TestHandleAnalyzeChannelAppliesDefaults(t *testing.T) {
	stub := &stubAnalyzer{analysis: &models.ChannelAnalysis{AnalysisID: uuid.New()}}
	router := newTestRouter(stub)

	w := postAnalyze(router, `{"channel_url":"https://www.youtube.com/@creator"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.gotReq)
	assert.Equal(t, 20, stub.gotReq.VideoCount)
}

func TestHandleAnalyzeChannelBadPayload(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"channel_url":`},
		{"missing channel url", `{"video_count":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(router, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Equal(t, "Bad Request", resp.Error)
			assert.Equal(t, "/api/v1/channels/analyze", resp.Path)
		})
	}
}

func TestHandleAnalyzeChannelErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        &service.ValidationError{Message: "Invalid YouTube channel URL"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid YouTube channel URL",
		},
		{
			name:       "not found",
			err:        &service.NotFoundError{Message: "Channel not found or is private"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Channel not found or is private",
		},
		{
			name:       "processing error",
			err:        &service.ProcessingError{Message: "failed to build analysis report", Cause: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Error analyzing channel: failed to build analysis report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubAnalyzer{err: tt.err})

			w := postAnalyze(router, `{"channel_url":"https://www.youtube.com/@creator"}`)
			require.Equal(t, tt.wantStatus, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Contains(t, resp.Message, tt.wantMsg)
		})
	}
}

func TestHandleAnalyzeChannelBadSortOrder(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{analysis: &models.ChannelAnalysis{}})

	w := postAnalyze(router, `{"channel_url":"https://www.youtube.com/@creator","sort_order":"newest"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postAnalyze(router, `{"channel_url":"https://www.youtube.com/@creator","sort_order":"popular"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRoot(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "YouTube Channel Analyzer API")
}
