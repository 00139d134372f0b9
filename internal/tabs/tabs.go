package tabs

import (
	"net/url"
	"slices"
	"strings"
)

// LocationUnpinned is the Arc location of tabs in the Today list.
const LocationUnpinned = "unpinned"

// TabRecord holds metadata about one tab of the active space.
type TabRecord struct {
	ID       string
	URL      string
	Location string // "unpinned", "pinned" or "topApp"
	Pinned   bool
	Domain   string // derived from URL by SelectCandidates
}

// NewTabRecord builds a record from the raw values reported by the browser.
func NewTabRecord(id, rawURL, location string) TabRecord {
	return TabRecord{
		ID:       id,
		URL:      rawURL,
		Location: location,
		Pinned:   location != LocationUnpinned,
	}
}

// Domain returns the lower-cased URL host with one literal "www." prefix removed.
// A malformed path, query or fragment does not hide the host; an
// unparseable authority yields an empty domain.
func Domain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		if u, err = url.Parse("//" + authority(rawURL)); err != nil {
			return ""
		}
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// authority returns the text between "//" and the first "/", "?" or "#".
func authority(rawURL string) string {
	_, rest, ok := strings.Cut(rawURL, "//")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// SelectCandidates keeps unpinned tabs in fetch order and fills in their domain.
func SelectCandidates(all []TabRecord) []TabRecord {
	out := make([]TabRecord, 0, len(all))
	for _, t := range all {
		if t.Pinned {
			continue
		}
		t.Domain = Domain(t.URL)
		out = append(out, t)
	}
	return out
}

// OrderByDomain returns candidate ids sorted ascending by domain.
// Equal domains keep their fetch order.
func OrderByDomain(candidates []TabRecord) []string {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b TabRecord) int {
		return strings.Compare(a.Domain, b.Domain)
	})

	ids := make([]string, len(sorted))
	for i, t := range sorted {
		ids[i] = t.ID
	}
	return ids
}
