package resolve

import "testing"

func TestDetectQuality(t *testing.T) {
	cases := []struct {
		text string
		url  string
		want string
	}{
		{"Download 4K HDR", "http://x/a", "4K"},
		{"movie", "http://x/movie-2160p.mkv", "4K"},
		{"Download 1080p", "http://x/a", "1080p"},
		{"FHD print", "http://x/a", "1080p"},
		{"Download 720p", "http://x/a", "720p"},
		{"HD rip", "http://x/a", "720p"}, // "hd" marker sits on the 720p rung
		{"Download 480p", "http://x/a", "480p"},
		{"Download", "http://x/a", "HD"},
		{"DOWNLOAD 1080P", "http://x/a", "1080p"}, // case-insensitive
		{"4k and 480p", "http://x/a", "4K"},       // ladder order wins
	}

	for _, tc := range cases {
		if got := DetectQuality(tc.text, tc.url); got != tc.want {
			t.Errorf("DetectQuality(%q, %q) = %q, want %q", tc.text, tc.url, got, tc.want)
		}
	}
}

func TestDetectProvider(t *testing.T) {
	cases := []struct {
		url  string
		want Provider
	}{
		{"https://hubcloud.ink/drive/abc", ProviderHubCloud},
		{"https://new.gdflix.net/file/x", ProviderGDFlix},
		{"https://gdlink.dev/x", ProviderGDLink},
		{"https://streamhub.to/x", ProviderUnknown},
		{"https://driveleech.org/x", ProviderUnknown},
		{"https://HUBCLOUD.example/x", ProviderHubCloud},
	}

	for _, tc := range cases {
		if got := DetectProvider(tc.url); got != tc.want {
			t.Errorf("DetectProvider(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestIsCandidate(t *testing.T) {
	if !isCandidate("https://hubcloud.ink/drive/abc") {
		t.Error("hubcloud URL should be a candidate")
	}
	if !isCandidate("https://DriveLeech.org/file/1") {
		t.Error("driveleech URL should be a candidate (case-insensitive)")
	}
	if isCandidate("https://example.com/page") {
		t.Error("unrelated URL should not be a candidate")
	}
}

func TestIsVideoURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example/v/movie.mkv", true},
		{"https://cdn.example/v/movie.MP4", true},
		{"https://cdn.example/v/stream.m3u8?token=1", true},
		{"https://cdn.example/v/movie.avi", true},
		{"https://cdn.example/v/page.html", false},
		{"https://cdn.example/v/movie.mkv.torrent", false},
		{"://bad", false},
	}

	for _, tc := range cases {
		if got := isVideoURL(tc.url); got != tc.want {
			t.Errorf("isVideoURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
