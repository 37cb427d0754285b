package handler

import (
	"html/template"
	"net/http"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/middleware"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the application shell for the browser routes. The
// shell is what the guards protect; the frontend bundle mounted on it
// talks to the /v1 API.
type PageHandler struct {
	tmpl *template.Template
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Moms Kitchen</title>
</head>
<body>
<div id="root" data-page="{{.Page}}" data-class="{{.Class}}"></div>
<script src="/assets/app.js" defer></script>
</body>
</html>
`))

// NewPageHandler creates a new page handler.
func NewPageHandler() *PageHandler {
	return &PageHandler{tmpl: shellTemplate}
}

type shellData struct {
	Page  string
	Class domain.Class
}

// Serve renders the shell for one named page.
func (h *PageHandler) Serve(page string) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := middleware.SessionFromContext(c)
		data := shellData{Page: page, Class: st.Active()}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return h.tmpl.Execute(c.Response(), data)
	}
}
