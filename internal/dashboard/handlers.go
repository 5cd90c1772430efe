package dashboard

import (
	"net/http"

	"AINutritionist/internal/display"
	"AINutritionist/internal/premservice"
	"AINutritionist/internal/utility"
	"github.com/labstack/echo/v4"
)

// Template names rendered by the server's renderer.
const (
	DashboardTemplate = "dashboard.html"
	TipTemplate       = "tip.html"
)

// TipResponse is the JSON body of the tip API.
type TipResponse struct {
	Tip   string `json:"tip"`
	Error string `json:"error,omitempty"`
}

// DashboardHandler renders the full dashboard page.
func (s *Service) DashboardHandler(c echo.Context) error {
	page := display.NewPage()
	s.Render(c.Request().Context(), page)

	utility.GetLoggerFromContext(c).Debug().
		Int("sections", len(page.Sections)).
		Int("errors", len(page.Blocks(display.KindError))).
		Msg("Rendering dashboard")
	return c.Render(http.StatusOK, DashboardTemplate, page)
}

// TipHandler handles the "Get Today's Tip" button.
func (s *Service) TipHandler(c echo.Context) error {
	page := display.NewPage()
	s.RenderTip(c.Request().Context(), page)

	utility.GetLoggerFromContext(c).Debug().
		Int("errors", len(page.Blocks(display.KindError))).
		Msg("Rendering tip")
	return c.Render(http.StatusOK, TipTemplate, page)
}

// DashboardAPIHandler returns the pipeline result as JSON. Upstream
// failures are reported in the body, never as a 5xx.
func (s *Service) DashboardAPIHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Run(c.Request().Context()))
}

// TipAPIHandler returns the daily tip as JSON.
func (s *Service) TipAPIHandler(c echo.Context) error {
	tip := s.Tip(c.Request().Context())
	return c.JSON(http.StatusOK, TipResponse{
		Tip:   tip.ValueOr(premservice.FallbackText),
		Error: tip.Reason(),
	})
}
