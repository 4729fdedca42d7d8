package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/navadeep914/olampic-dataset/internal/medals"
	"github.com/navadeep914/olampic-dataset/internal/version"
)

//go:embed dashboard.html
var shellHTML embed.FS

// serveShell renders the dashboard shell page: summary cards, the upload
// form, filter controls and the embedded charts.
func (s *Server) serveShell(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	tmpl, err := template.ParseFS(shellHTML, "dashboard.html")
	if err != nil {
		http.Error(w, "Error loading template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	table, _, err := s.table(r.Context(), medals.FilterSpec{})
	if err != nil {
		http.Error(w, "Error loading dataset: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Summary medals.Summary
		NoData  bool
		Version string
	}{
		Summary: medals.Summarize(table),
		NoData:  len(table) == 0,
		Version: version.Version,
	}

	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Error executing template: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
