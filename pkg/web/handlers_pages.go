package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

type pageData struct {
	Title     string
	Path      string
	Org       string
	Contact   string
	Year      int
	CSRFToken string
}

type homePage struct {
	pageData
	ImpactAreas  []model.ImpactArea
	Testimonials []model.Testimonial
}

type aboutPage struct {
	pageData
	Values []model.Value
	Team   []model.TeamMember
	Stats  []model.Stat
}

func (s *Server) newPageData(c echo.Context, title string) pageData {
	return pageData{
		Title:     title,
		Path:      c.Request().URL.Path,
		Org:       s.config.OrganisationName,
		Contact:   s.config.ContactEmail,
		Year:      s.clock.Now().Year(),
		CSRFToken: csrfToken(c),
	}
}

func (s *Server) handleHome(c echo.Context) error {
	return s.renderTemplate(c, http.StatusOK, "home.html", homePage{
		pageData:     s.newPageData(c, "Together We Can"),
		ImpactAreas:  model.ImpactAreas,
		Testimonials: model.Testimonials,
	})
}

func (s *Server) handleAbout(c echo.Context) error {
	return s.renderTemplate(c, http.StatusOK, "about.html", aboutPage{
		pageData: s.newPageData(c, "About"),
		Values:   model.Values,
		Team:     model.TeamMembers,
		Stats:    model.ImpactStats,
	})
}
