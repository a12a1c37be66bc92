package addon

const (
	addonID          = "org.moviesdrive.addon"
	addonName        = "MoviesDrive"
	addonVersion     = "1.0.0"
	addonDescription = "Movies and TV shows from MoviesDrive with multi-provider HD streams"
	addonLogo        = "https://github.com/SaurabhKaperwan/CSX/raw/refs/heads/master/MoviesDrive/icon.png"

	catalogMoviesID = "moviesdrive_movies"
	catalogSeriesID = "moviesdrive_series"
)

// seedTerms feed the default catalogs when the client sends no search query.
var seedTerms = map[string][]string{
	"movie":  {"latest movies", "bollywood", "hollywood", "2024"},
	"series": {"tv series", "web series", "netflix", "prime video"},
}

const (
	maxMetasPerTerm = 5
	maxMetasTotal   = 20
)

// buildManifest assembles the static addon manifest.
func buildManifest() Manifest {
	searchExtra := []ExtraField{{Name: "search", IsRequired: false}}
	return Manifest{
		ID:          addonID,
		Version:     addonVersion,
		Name:        addonName,
		Description: addonDescription,
		Logo:        addonLogo,
		Background:  addonLogo,
		Resources:   []string{"catalog", "stream"},
		Types:       []string{"movie", "series"},
		Catalogs: []CatalogRef{
			{ID: catalogMoviesID, Name: "MoviesDrive Movies", Type: "movie", Extra: searchExtra},
			{ID: catalogSeriesID, Name: "MoviesDrive Series", Type: "series", Extra: searchExtra},
		},
		IDPrefixes: []string{"mdrive"},
	}
}
