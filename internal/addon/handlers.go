package addon

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/gorilla/mux"

	"github.com/FranksOps/mdrive/internal/pipeline"
	"github.com/FranksOps/mdrive/internal/scraper"
)

// ContentSource is the slice of the pipeline the handlers consume.
type ContentSource interface {
	Search(ctx context.Context, query string) []scraper.SearchResult
	Detail(ctx context.Context, pageURL string) (pipeline.ContentDetail, bool)
	BaseURL() string
}

// Server holds the addon's HTTP handlers.
type Server struct {
	source ContentSource
	logger *slog.Logger
}

// Config for the Server.
type Config struct {
	Source ContentSource
	Logger *slog.Logger
}

// NewServer creates the addon handler set.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{source: cfg.Source, logger: cfg.Logger}
}

// Router builds the addon route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/manifest.json", s.handleManifest).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}.json", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}/{extra}.json", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/stream/{type}/{id}.json", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// yearPattern pulls a release year out of scraped titles like
// "Dune (2021) 1080p HD".
var yearPattern = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)

func extractYear(title string) string {
	m := yearPattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("response write failed", "error", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>{{.Name}} Stremio Addon</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 40px; background: #1a1a1a; color: white; }
		.container { max-width: 600px; margin: 0 auto; text-align: center; }
		.addon-info { background: #333; padding: 20px; border-radius: 10px; margin: 20px 0; }
		.install-btn { background: #7b2cbf; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-size: 18px; }
		.install-btn:hover { background: #9147ff; }
	</style>
</head>
<body>
	<div class="container">
		<h1>🎬 {{.Name}} Stremio Addon</h1>
		<div class="addon-info">
			<h3>High Quality Movies and TV Shows</h3>
			<p>Direct streaming from MoviesDrive with HD quality content</p>
			<p><strong>Version:</strong> {{.Version}}</p>
			<p><strong>Supported:</strong> Movies, TV Series, Anime, K-Drama</p>
		</div>
		<a href="stremio://{{.Host}}/manifest.json" class="install-btn">📱 Install to Stremio</a>
		<p style="margin-top: 20px; font-size: 14px; opacity: 0.7;">
			Click the button above to add this addon to your Stremio app
		</p>
	</div>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct {
		Name    string
		Version string
		Host    string
	}{addonName, addonVersion, r.Host})
	if err != nil {
		s.logger.Error("landing page render failed", "error", err)
	}
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, buildManifest())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	catalogType := vars["type"]
	catalogID := vars["id"]

	if catalogID != catalogMoviesID && catalogID != catalogSeriesID {
		http.NotFound(w, r)
		return
	}

	query := searchQuery(vars["extra"])
	terms := []string{query}
	if query == "" {
		terms = seedTerms[catalogType]
	}

	wantKind := scraper.KindMovie
	if catalogType == "series" {
		wantKind = scraper.KindSeries
	}

	s.logger.Info("catalog request", "type", catalogType, "id", catalogID, "search", query)

	metas := []Meta{}
	for _, term := range terms {
		results := s.source.Search(r.Context(), term)
		perTerm := 0
		for _, res := range results {
			if res.Kind != wantKind {
				continue
			}
			metas = append(metas, Meta{
				ID:     EncodeID(res.URL),
				Type:   catalogType,
				Name:   res.Title,
				Poster: res.Poster,
				Year:   extractYear(res.Title),
			})
			perTerm++
			if perTerm >= maxMetasPerTerm || len(metas) >= maxMetasTotal {
				break
			}
		}
		if len(metas) >= maxMetasTotal {
			break
		}
	}

	writeJSON(w, CatalogResponse{Metas: metas})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	pageURL, err := DecodeID(id)
	if err != nil {
		s.logger.Warn("stream request with undecodable id", "id", id, "error", err)
		writeJSON(w, StreamResponse{Streams: []Stream{}})
		return
	}

	s.logger.Info("stream request", "type", vars["type"], "page", pageURL)

	detail, ok := s.source.Detail(r.Context(), pageURL)
	if !ok {
		writeJSON(w, StreamResponse{Streams: []Stream{}})
		return
	}

	streams := make([]Stream, 0, len(detail.Sources))
	for _, src := range detail.Sources {
		streams = append(streams, Stream{
			Name:  addonName,
			Title: fmt.Sprintf("%s • %s", src.Provider, src.Quality),
			URL:   src.URL,
		})
	}
	writeJSON(w, StreamResponse{Streams: streams})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:    "healthy",
		Addon:     addonName,
		Version:   addonVersion,
		Origin:    s.source.BaseURL(),
		Timestamp: time.Now().Unix(),
	})
}

// searchQuery extracts the search term from a catalog extra path segment,
// which clients send query-string encoded ("search=dune").
func searchQuery(extra string) string {
	if extra == "" {
		return ""
	}
	values, err := url.ParseQuery(extra)
	if err != nil {
		return ""
	}
	return values.Get("search")
}
