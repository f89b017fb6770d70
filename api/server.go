/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack and the route table.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request
  2. RequestLogger: Access log through the process slog logger
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for a separately served UI

STATIC FILE SERVING:
  Serves the browser UI from the configured directory. Unknown paths fall
  back to index.html. Without a UI directory a small API index page is
  served instead.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/wage-engine/config"
	"github.com/warp/wage-engine/logging"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLogger(h.Logger),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/save_entry", h.SaveEntry)
		r.Delete("/delete_entry", h.DeleteEntry)
		r.Delete("/delete_month", h.DeleteMonth)
		r.Get("/get_entries", h.GetEntries)

		r.Get("/calculate_total_wage", h.CalculateTotalWage)
		r.Get("/get_report_data", h.GetReportData)
		r.Get("/generate_report", h.GenerateReport)
		r.Get("/report.csv", h.DownloadReport)
	})

	staticDir := cfg.StaticDir
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			staticDir = ""
		}
	}

	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))

			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(indexPage))
		})
	}

	return r
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Wage Tracker</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Wage Tracker API</h1>
<p>No UI directory is configured. Set <code>server.static_dir</code> to serve the calendar UI.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/get_entries">/api/get_entries</a> - All entries</li>
<li><a href="/api/calculate_total_wage">/api/calculate_total_wage</a> - Totals</li>
<li><a href="/api/get_report_data">/api/get_report_data</a> - Report table</li>
<li><a href="/api/report.csv">/api/report.csv</a> - CSV download</li>
</ul>
</body>
</html>`
