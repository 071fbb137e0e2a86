// internal/api/v2/search.go
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// initSearchRoutes registers the search API endpoints
func (c *Controller) initSearchRoutes() {
	c.Group.GET("/search", c.SearchPlants)
}

// SearchResponse wraps search results with paging information
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []PlantResponse `json:"results"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// SearchPlants handles GET /api/v2/search?q=...&limit=...&offset=...
// Queries shorter than the minimum length return an empty result set rather
// than an error.
func (c *Controller) SearchPlants(ctx echo.Context) error {
	query := strings.TrimSpace(ctx.QueryParam("q"))
	limit, offset := pagination(ctx.QueryParam("limit"), ctx.QueryParam("offset"))

	plants, err := c.DS.SearchPlants(query, limit, offset)
	if err != nil {
		return c.HandleError(ctx, err, "Search failed", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, SearchResponse{
		Query:   query,
		Results: c.plantsToResponse(plants, c.requestLanguage(ctx)),
		Limit:   limit,
		Offset:  offset,
	})
}
