package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/reviewsentiment/internal/models"
	"github.com/spacesedan/reviewsentiment/internal/sentiment"
)

// handleAnalyze scores the review and echoes it back with its label and
// the raw polarity.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	score, err := s.scorer.Polarity(c.Request().Context(), req.Review)
	if err != nil {
		s.analysis.ScorerErrors.Inc()
		slog.Error("[Server] Sentiment scoring failed",
			slog.Int("review_length", len(req.Review)),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	label := sentiment.Classify(score)
	s.analysis.Observe(string(label), score)

	return c.JSON(http.StatusOK, models.ReviewAnalysis{
		Review:    req.Review,
		Sentiment: label,
		Score:     score,
	})
}
