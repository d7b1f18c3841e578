// Package handler exposes the HTTP surface of the channel analyzer.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/channel-insights/channel-analyzer-go/internal/metrics"
	"github.com/channel-insights/channel-analyzer-go/internal/models"
	"github.com/channel-insights/channel-analyzer-go/internal/service"
	"github.com/channel-insights/channel-analyzer-go/internal/validation"
	"github.com/channel-insights/channel-analyzer-go/pkg/logger"
)

// ChannelAnalyzer produces an analysis report for a normalized request.
type ChannelAnalyzer interface {
	AnalyzeChannel(ctx context.Context, req *models.ChannelAnalysisRequest) (*models.ChannelAnalysis, error)
}

// AnalyzeHandler handles channel analysis HTTP requests.
type AnalyzeHandler struct {
	analyzer   ChannelAnalyzer
	normalizer *validation.Normalizer
}

// NewAnalyzeHandler creates a new AnalyzeHandler instance.
func NewAnalyzeHandler(analyzer ChannelAnalyzer, normalizer *validation.Normalizer) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:   analyzer,
		normalizer: normalizer,
	}
}

// HandleAnalyzeChannel runs a full channel analysis for the submitted URL.
func (h *AnalyzeHandler) HandleAnalyzeChannel(c *gin.Context) {
	var req models.ChannelAnalysisRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Invalid request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		metrics.RecordAnalysis("validation_error")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "Invalid request payload: " + err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	if err := h.normalizer.Normalize(&req); err != nil {
		h.handleError(c, &service.ValidationError{Message: err.Error()})
		return
	}

	logger.Log.Info("Analyzing channel",
		zap.String("channelUrl", req.ChannelURL),
		zap.Int("videoCount", req.VideoCount),
		zap.String("sortOrder", req.SortOrder),
		zap.String("timezone", req.Timezone),
	)

	analysis, err := h.analyzer.AnalyzeChannel(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	metrics.RecordAnalysis("success")
	logger.Log.Info("Analysis completed",
		zap.String("analysisId", analysis.AnalysisID.String()),
		zap.String("channelId", analysis.ChannelInfo.ID),
		zap.Int("videos", len(analysis.Videos)),
	)

	c.JSON(http.StatusOK, analysis)
}

// HandleRoot returns the service banner.
func (h *AnalyzeHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "YouTube Channel Analyzer API",
	})
}

func (h *AnalyzeHandler) handleError(c *gin.Context, err error) {
	switch err.(type) {
	case *service.ValidationError:
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		metrics.RecordAnalysis("validation_error")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	case *service.NotFoundError:
		logger.Log.Warn("Channel lookup failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		metrics.RecordAnalysis("not_found")
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:    http.StatusNotFound,
			Error:     "Not Found",
			Message:   err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	default:
		logger.Log.Error("Analysis failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		metrics.RecordAnalysis("error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:    http.StatusInternalServerError,
			Error:     "Internal Server Error",
			Message:   "Error analyzing channel: " + err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	}
}
