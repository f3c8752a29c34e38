// Package api exposes the read-only query service over the canonical dataset.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventpipe/internal/dataset"
	"eventpipe/internal/logger"
	"eventpipe/internal/models"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Server holds the query service dependencies.
type Server struct {
	store *dataset.Store
	log   *logger.Logger
}

// NewServer creates a query server over the dataset store.
func NewServer(store *dataset.Store, log *logger.Logger) *Server {
	return &Server{store: store, log: log}
}

// SetupRoutes configures all API routes.
func (s *Server) SetupRoutes(r *gin.Engine) {
	r.GET("/health", s.Health)
	r.GET("/events", s.GetEvents)
	r.GET("/events/:id", s.GetEvent)
	r.GET("/stats", s.GetStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Health returns service health and dataset size.
func (s *Server) Health(c *gin.Context) {
	events, err := s.store.Events()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"total_events": len(events),
	})
}

// GetEvents returns events matching the query filters.
func (s *Server) GetEvents(c *gin.Context) {
	events, err := s.store.Events()
	if err != nil {
		s.log.Error("dataset load failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset unavailable"})

		return
	}

	query := dataset.Query{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Source:   c.Query("source"),
		Text:     c.Query("q"),
	}

	if query.Category != "" && !models.Category(query.Category).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})

		return
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseQueryTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})

			return
		}

		query.Start = &t
	}

	if raw := c.Query("end_date"); raw != "" {
		t, err := parseQueryTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})

			return
		}

		query.End = &t
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})

		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})

		return
	}

	query.Limit = limit
	query.Offset = offset

	matched := dataset.Filter(events, query)

	c.JSON(http.StatusOK, gin.H{
		"count":  len(matched),
		"events": matched,
	})
}

// GetEvent returns one event by id.
func (s *Server) GetEvent(c *gin.Context) {
	events, err := s.store.Events()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset unavailable"})

		return
	}

	id := c.Param("id")

	for _, e := range events {
		if e.ID == id {
			c.JSON(http.StatusOK, e)

			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
}

// GetStats returns aggregate counts by category and by source.
func (s *Server) GetStats(c *gin.Context) {
	events, err := s.store.Events()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset unavailable"})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events": len(events),
		"by_category":  dataset.CountByCategory(events),
		"by_source":    dataset.CountBySource(events),
	})
}

func parseQueryTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}
