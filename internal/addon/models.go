// Package addon is the Stremio-facing surface: manifest, catalog, stream,
// and health endpoints over the scrape pipeline. Everything here is
// stateless shaping; the pipeline does the work.
package addon

// Manifest describes the addon to Stremio clients.
type Manifest struct {
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Logo        string       `json:"logo,omitempty"`
	Background  string       `json:"background,omitempty"`
	Resources   []string     `json:"resources"`
	Types       []string     `json:"types"`
	Catalogs    []CatalogRef `json:"catalogs"`
	IDPrefixes  []string     `json:"idPrefixes,omitempty"`
}

// CatalogRef is one catalog entry in the manifest.
type CatalogRef struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Type  string       `json:"type"`
	Extra []ExtraField `json:"extra,omitempty"`
}

// ExtraField declares an optional catalog parameter such as search.
type ExtraField struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// Meta is one catalog item in Stremio meta format.
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	Background  string   `json:"background,omitempty"`
	Description string   `json:"description,omitempty"`
	Year        string   `json:"year,omitempty"`
	IMDBRating  string   `json:"imdbRating,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Stream is a single playable stream in Stremio format.
type Stream struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// CatalogResponse is the body of a catalog endpoint.
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// StreamResponse is the body of a stream endpoint.
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Addon     string `json:"addon"`
	Version   string `json:"version"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}
