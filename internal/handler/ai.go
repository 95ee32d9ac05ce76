package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/ai"
)

// Analyzer abstracts the completion client so tests can stub it.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*ai.Analysis, error)
}

// AIHandler serves POST /ai/analyze. The endpoint is stateless: it
// analyzes whatever text is posted and stores nothing.
type AIHandler struct {
	Client Analyzer
}

func NewAIHandler(client Analyzer) *AIHandler {
	return &AIHandler{Client: client}
}

func (h *AIHandler) Analyze(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	result, err := h.Client.Analyze(c.Request().Context(), req.Content)
	if err != nil {
		log.Printf("ai analyze failed: %v", err)
		if errors.Is(err, ai.ErrUpstream) || errors.Is(err, ai.ErrBadCompletion) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "analysis service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error analyzing entry"})
	}
	return c.JSON(http.StatusOK, result)
}
