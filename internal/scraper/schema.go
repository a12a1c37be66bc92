package scraper

// Schema collects every selector and keyword the origin's markup structure
// pins us to. When the site shuffles its templates, this is the one place
// that needs touching.
type Schema struct {
	// Search result list
	SearchItem   string // one result entry
	SearchImage  string // image inside an entry; title attr carries the name
	SearchAnchor string // link inside an entry

	// Content page
	DetailTitle  string // social-preview title meta tag
	DetailPoster string // first async-decoded image
	IMDBAnchor   string // any link into IMDb

	// Download buttons on a content page
	DownloadButton string

	// Classification keywords
	TitlePrefix    string   // stripped from scraped titles
	SeriesKeywords []string // lowercase title substrings implying a series
	CamKeywords    []string // uppercase title substrings implying a CAM rip
}

// DefaultSchema matches the origin's current WordPress theme.
func DefaultSchema() Schema {
	return Schema{
		SearchItem:     "ul.recent-movies > li",
		SearchImage:    "figure > img",
		SearchAnchor:   "figure > a",
		DetailTitle:    "meta[property='og:title']",
		DetailPoster:   "img[decoding='async']",
		IMDBAnchor:     "a[href*='imdb']",
		DownloadButton: "h5 > a",
		TitlePrefix:    "Download ",
		SeriesKeywords: []string{"season", "episode", "series", "s01", "s02", "s03"},
		CamKeywords:    []string{"HDCAM", "CAMRIP"},
	}
}
