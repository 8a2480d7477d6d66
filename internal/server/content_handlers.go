package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/megaplex/realestate/internal/content"
	"github.com/megaplex/realestate/internal/models"
)

// UpdateContentRequest is the body of a section upsert
type UpdateContentRequest struct {
	Data models.JSON `json:"data"`
}

// UpdateContentResponse returns the stored record
type UpdateContentResponse struct {
	Success bool                   `json:"success"`
	Content *models.ContentSection `json:"content"`
}

// @Summary List content
// @Description All sections keyed by name
// @Tags content
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /content [get]
func (s *Server) listContent(c *gin.Context) {
	sections, err := s.content.GetAll(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list content")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sections)
}

// @Summary Get section
// @Tags content
// @Produce json
// @Param section path string true "Section name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /content/{section} [get]
func (s *Server) getContent(c *gin.Context) {
	data, err := s.content.Get(c.Request.Context(), c.Param("section"))
	if err != nil {
		if errors.Is(err, content.ErrSectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		s.logger.Error().Err(err).Str("section", c.Param("section")).Msg("Failed to load section")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}

// @Summary Update section
// @Description Create or replace a section's content
// @Tags admin
// @Accept json
// @Produce json
// @Param section path string true "Section name"
// @Param request body UpdateContentRequest true "Section payload"
// @Success 200 {object} UpdateContentResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /admin/content/{section} [put]
func (s *Server) updateContent(c *gin.Context) {
	section := c.Param("section")

	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.content.Upsert(c.Request.Context(), section, req.Data)
	if err != nil {
		if errors.Is(err, content.ErrMissingData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error().Err(err).Str("section", section).Msg("Failed to update section")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("section", section).
		Str("session_id", sessionData.SessionID).
		Msg("Content updated")
	s.metrics.IncContentUpdate(section)

	c.JSON(http.StatusOK, UpdateContentResponse{Success: true, Content: record})
}
