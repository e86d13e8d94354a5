package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	errx "github.com/storefront-agent-poc/server/internal/core/error"

	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/react"
	"github.com/storefront-agent-poc/server/internal/agent/seo"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleListProducts returns the catalog, optionally narrowed by ?q= or
// ?category=.
func (s *Server) handleListProducts(c echo.Context) error {
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		return c.JSON(http.StatusOK, s.catalog.Search(q, 0))
	}
	if cat := strings.TrimSpace(c.QueryParam("category")); cat != "" {
		return c.JSON(http.StatusOK, s.catalog.ByCategory(cat, 0))
	}
	return c.JSON(http.StatusOK, s.catalog.Products())
}

// handleQuery runs the query loop. A failed run still returns its report so
// the caller sees the partial trajectory; the status code carries the
// failure class.
func (s *Server) handleQuery(c echo.Context) error {
	var in model.QueryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(in.Query) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
	}

	report := s.query.Run(c.Request().Context(), in)
	if report.Status == react.StatusFailed {
		return c.JSON(queryFailureStatus(report.Failure), report)
	}
	return c.JSON(http.StatusOK, report)
}

// handleSEO runs the description-improvement loop for one product.
func (s *Server) handleSEO(c echo.Context) error {
	var in model.SEOInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "product_id is required"})
	}

	report, err := s.seo.Run(c.Request().Context(), in)
	if err != nil {
		return c.JSON(errx.StatusOf(err), errorResponse{Error: err.Error()})
	}
	if report.Status == seo.StatusFailed {
		return c.JSON(seoFailureStatus(report.Failure), report)
	}
	return c.JSON(http.StatusOK, report)
}

func queryFailureStatus(f *react.Failure) int {
	if f == nil {
		return http.StatusInternalServerError
	}
	switch f.Kind {
	case react.FailureUpstream:
		return http.StatusBadGateway
	case react.FailureParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func seoFailureStatus(f *seo.Failure) int {
	if f == nil {
		return http.StatusInternalServerError
	}
	switch f.Kind {
	case seo.FailureUpstream:
		return http.StatusBadGateway
	case seo.FailureParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
