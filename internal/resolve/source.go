// Package resolve walks the origin's two-level download chain: a content
// page links to intermediate "download button" pages, each of which links to
// a third-party hosting provider, from which a final playable URL has to be
// recovered. Every level tolerates partial failure: a dead provider thins
// the result set, it never aborts the request.
package resolve

import (
	"net/url"
	"strings"
)

// Provider identifies the hosting service a stream was recovered from.
type Provider string

const (
	ProviderHubCloud Provider = "HubCloud"
	ProviderGDFlix   Provider = "GDFlix"
	ProviderGDLink   Provider = "GDLink"
	ProviderUnknown  Provider = "Unknown"
)

// Source is one resolved, presumed-playable stream.
type Source struct {
	URL      string
	Quality  string // 4K, 1080p, 720p, 480p, or HD
	Provider Provider
}

// hostPatterns are the known hosting-provider markers. An anchor on a button
// page is a candidate stream link iff its URL contains one of these.
var hostPatterns = []string{"hubcloud", "gdflix", "gdlink", "streamhub", "driveleech"}

// videoExtensions mark a URL path as a direct video file.
var videoExtensions = []string{".mp4", ".m3u8", ".mkv", ".avi"}

// isCandidate reports whether rawURL points at a known hosting provider.
func isCandidate(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, p := range hostPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isVideoURL reports whether the URL's path ends in a known video container
// extension. Queries and fragments are ignored.
func isVideoURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// DetectProvider tags a candidate URL with its hosting provider.
func DetectProvider(rawURL string) Provider {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "hubcloud"):
		return ProviderHubCloud
	case strings.Contains(lower, "gdflix"):
		return ProviderGDFlix
	case strings.Contains(lower, "gdlink"):
		return ProviderGDLink
	default:
		return ProviderUnknown
	}
}

// qualityLadder is checked in order; the first rung whose markers appear in
// either the link text or the URL wins.
var qualityLadder = []struct {
	quality string
	markers []string
}{
	{"4K", []string{"4k", "2160p"}},
	{"1080p", []string{"1080p", "fhd"}},
	{"720p", []string{"720p", "hd"}},
	{"480p", []string{"480p"}},
}

// DetectQuality classifies a stream by its link text and URL,
// case-insensitively, defaulting to HD.
func DetectQuality(text, rawURL string) string {
	textLower := strings.ToLower(text)
	urlLower := strings.ToLower(rawURL)

	for _, rung := range qualityLadder {
		for _, m := range rung.markers {
			if strings.Contains(textLower, m) || strings.Contains(urlLower, m) {
				return rung.quality
			}
		}
	}
	return "HD"
}
