package scraper

import "time"

// Result represents the outcome of a single fetch against the origin or one
// of the hop pages. Transport failures are carried in Error rather than
// returned, so callers can treat every outcome uniformly and degrade to
// empty data.
type Result struct {
	ID           string
	URL          string
	Method       string
	StatusCode   int
	Headers      map[string][]string
	Body         []byte
	Duration     time.Duration
	DetectedBot  bool
	DetectionSrc string // e.g. "Cloudflare", "Akamai", "PerimeterX", "DataDome"
	CreatedAt    time.Time
	Error        string // non-empty if the fetch failed before an HTTP response
}

// OK reports whether the fetch produced a usable 200 response.
func (r *Result) OK() bool {
	return r != nil && r.Error == "" && r.StatusCode == 200
}

// Detector examines a fetch result and reports whether a bot-protection
// layer blocked or challenged the request. Implementations live in the
// bypass package; they are injected into the Fetcher to keep this package
// free of that dependency.
type Detector func(res *Result) (detected bool, source string)

// Analyze runs the result through the provided detectors, updating it in
// place with the detection status. It returns true if any detector fired.
func Analyze(res *Result, detectors []Detector) bool {
	if res == nil {
		return false
	}
	for _, d := range detectors {
		if detected, source := d(res); detected {
			res.DetectedBot = true
			res.DetectionSrc = source
			return true
		}
	}
	res.DetectedBot = false
	res.DetectionSrc = ""
	return false
}
