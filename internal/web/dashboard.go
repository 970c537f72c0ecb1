package web

import (
	"net/http"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/logging"
	"github.com/JonMunkholm/framefill/internal/web/templates"
)

// dashboardRuns is the number of runs shown on the dashboard.
const dashboardRuns = 20

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var chains []document.ChainInfo
	if s.layout.HasDocument() {
		var err error
		chains, err = s.layout.Chains()
		if err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	runs, err := s.service.Runs().ListRuns(r.Context(), dashboardRuns)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Dashboard(s.layout.Name(), s.opts.Frame, chains, runs)
	if err := page.Render(r.Context(), w); err != nil {
		// Part of the page may already be written.
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}
