package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FranksOps/mdrive/internal/fingerprint"
	"github.com/FranksOps/mdrive/internal/scraper"
	"github.com/FranksOps/mdrive/pkg/useragent"
	"github.com/PuerkitoBio/goquery"
)

func newTestFetcher(t *testing.T) *scraper.Fetcher {
	t.Helper()
	f, err := scraper.NewFetcher(scraper.FetchConfig{
		Fingerprint:  fingerprint.ProfileGo,
		UAPool:       useragent.NewPool([]string{"TestBrowser/1.0"}),
		MaxRedirects: 5,
	})
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return f
}

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	f := newTestFetcher(t)
	return NewStage(scraper.DefaultSchema(), f, DefaultRegistry(f, nil), 2, nil)
}

func contentDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestSources_SkipsZipButtons(t *testing.T) {
	var fetched []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = append(fetched, r.URL.Path)
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer ts.Close()

	page := fmt.Sprintf(`<html><body>
		<h5><a href="%s/zip">Download Zip Pack</a></h5>
		<h5><a href="%s/hd">Download 1080p</a></h5>
	</body></html>`, ts.URL, ts.URL)

	stage := newTestStage(t)
	stage.Sources(context.Background(), contentDoc(t, page), ts.URL)

	for _, path := range fetched {
		if path == "/zip" {
			t.Error("zip button must not be expanded")
		}
	}
	found := false
	for _, path := range fetched {
		if path == "/hd" {
			found = true
		}
	}
	if !found {
		t.Error("sibling non-zip button must still be expanded")
	}
}

func TestSources_HubCloudCandidateOnly(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// The button page links one HubCloud candidate and one unrelated anchor.
	mux.HandleFunc("/button", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="%s/hubcloud/drive/abc">Download 1080p</a>
			<a href="%s/unrelated">Totally unrelated</a>
		</body></html>`, ts.URL, ts.URL)
	})
	// The provider page exposes a direct file anchor.
	mux.HandleFunc("/hubcloud/drive/abc", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/files/movie.mkv">Download File</a></body></html>`, ts.URL)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	})

	page := fmt.Sprintf(`<html><body><h5><a href="%s/button">Download 1080p</a></h5></body></html>`, ts.URL)

	stage := newTestStage(t)
	sources := stage.Sources(context.Background(), contentDoc(t, page), ts.URL)

	if len(sources) != 1 {
		t.Fatalf("expected exactly one source, got %d: %+v", len(sources), sources)
	}
	if sources[0].Provider != ProviderHubCloud {
		t.Errorf("expected HubCloud provider, got %q", sources[0].Provider)
	}
	if sources[0].URL != ts.URL+"/files/movie.mkv" {
		t.Errorf("unexpected resolved URL %q", sources[0].URL)
	}
	if sources[0].Quality != "1080p" {
		t.Errorf("expected 1080p from link text, got %q", sources[0].Quality)
	}
}

func TestSources_DeadButtonContributesNothing(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/dead", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/streamhub/video/movie.mp4">720p</a></body></html>`, ts.URL)
	})
	mux.HandleFunc("/streamhub/video/movie.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	page := fmt.Sprintf(`<html><body>
		<h5><a href="%s/dead">Download 480p</a></h5>
		<h5><a href="%s/live">Download 720p</a></h5>
	</body></html>`, ts.URL, ts.URL)

	stage := newTestStage(t)
	sources := stage.Sources(context.Background(), contentDoc(t, page), ts.URL)

	if len(sources) != 1 {
		t.Fatalf("expected one source from the live button, got %d", len(sources))
	}
	if sources[0].Provider != ProviderUnknown {
		t.Errorf("streamhub has no dedicated resolver, expected Unknown, got %q", sources[0].Provider)
	}
}

func TestGenericResolver_RedirectTargets(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/to-video", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final/movie.mkv", http.StatusFound)
	})
	mux.HandleFunc("/to-page", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final/landing.html", http.StatusFound)
	})
	mux.HandleFunc("/final/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	g := NewGeneric(newTestFetcher(t))

	final, ok := g.Resolve(context.Background(), ts.URL+"/to-video")
	if !ok {
		t.Fatal("expected .mkv redirect target to be accepted")
	}
	if final != ts.URL+"/final/movie.mkv" {
		t.Errorf("unexpected final URL %q", final)
	}

	if _, ok := g.Resolve(context.Background(), ts.URL+"/to-page"); ok {
		t.Fatal("expected .html redirect target to be rejected")
	}
}

func TestHubCloud_ScriptedHop(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/hubcloud/link/x", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><script>var url = '%s/hubcloud/drive/x';</script></body></html>`, ts.URL)
	})
	mux.HandleFunc("/hubcloud/drive/x", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/dl/movie.mp4">Download File</a></body></html>`, ts.URL)
	})

	hc := NewHubCloud(newTestFetcher(t), nil)
	final, ok := hc.Resolve(context.Background(), ts.URL+"/hubcloud/link/x")
	if !ok {
		t.Fatal("expected scripted hop to resolve")
	}
	if final != ts.URL+"/dl/movie.mp4" {
		t.Errorf("unexpected final URL %q", final)
	}
}

func TestHubCloud_HintedAnchor(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/hubcloud/drive/y", func(w http.ResponseWriter, r *http.Request) {
		// No direct video link; the FSL server button carries the file.
		fmt.Fprintf(w, `<html><body>
			<a href="%s/nothing">Home</a>
			<a href="%s/fsl/file">Download [FSL Server]</a>
		</body></html>`, ts.URL, ts.URL)
	})

	hc := NewHubCloud(newTestFetcher(t), nil)
	final, ok := hc.Resolve(context.Background(), ts.URL+"/hubcloud/drive/y")
	if !ok {
		t.Fatal("expected hinted anchor to resolve")
	}
	if final != ts.URL+"/fsl/file" {
		t.Errorf("unexpected final URL %q", final)
	}
}

func TestRegistry_ProviderBeforeFallback(t *testing.T) {
	f := newTestFetcher(t)
	reg := DefaultRegistry(f, nil)

	// A gdflix URL must be claimed by the GDFlix resolver even though the
	// generic fallback matches everything.
	for _, res := range reg.resolvers {
		if res.Matches("https://new.gdflix.net/file/1") {
			if res.Provider() != ProviderGDFlix {
				t.Errorf("expected GDFlix resolver to claim the URL, got %q", res.Provider())
			}
			return
		}
	}
	t.Fatal("no provider resolver matched a gdflix URL")
}
