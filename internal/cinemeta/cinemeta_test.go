package cinemeta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: base})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestMeta_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/tt1160419.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"meta":{"name":"Dune","poster":"https://img/p.jpg","background":"https://img/b.jpg","description":"Desert planet.","genre":["Sci-Fi"],"cast":["Timothée Chalamet"],"year":"2021","imdbRating":"8.0"}}`)
	}))
	defer ts.Close()

	meta := newClient(t, ts.URL).Meta(context.Background(), "movie", "tt1160419")

	if meta.Name != "Dune" {
		t.Errorf("unexpected name %q", meta.Name)
	}
	if meta.Year != "2021" || meta.IMDBRating != "8.0" {
		t.Errorf("unexpected year/rating %q/%q", meta.Year, meta.IMDBRating)
	}
	if len(meta.Genre) != 1 || meta.Genre[0] != "Sci-Fi" {
		t.Errorf("unexpected genres %v", meta.Genre)
	}
	if len(meta.Cast) != 1 {
		t.Errorf("unexpected cast %v", meta.Cast)
	}
}

func TestMeta_EmptyOnFailure(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"meta": [`)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			meta := newClient(t, ts.URL).Meta(context.Background(), "movie", "tt0000001")
			if meta.Name != "" || meta.Poster != "" || len(meta.Genre) != 0 {
				t.Errorf("expected zero meta, got %+v", meta)
			}
		})
	}
}

func TestMeta_EmptyID(t *testing.T) {
	// Must not touch the network at all
	c := newClient(t, "http://127.0.0.1:1")
	if meta := c.Meta(context.Background(), "movie", ""); meta.Name != "" {
		t.Errorf("expected zero meta for empty id, got %+v", meta)
	}
}

func TestMeta_ServiceUnreachable(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:1")
	if meta := c.Meta(context.Background(), "series", "tt123"); meta.Name != "" {
		t.Errorf("expected zero meta when service is down, got %+v", meta)
	}
}
