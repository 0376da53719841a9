package places

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Limits on how many places one search produces.
const (
	MinResults     = 5
	MaxResults     = 25
	DefaultResults = 10
	DefaultRadius  = 5000
)

var embeddedLocation = regexp.MustCompile(`(?i)^(.+?)\s+(?:em|in|near|no|na)\s+(.+)$`)

// SearchParams describes a place search. Lat and Lng, when both set, take
// precedence over Location.
type SearchParams struct {
	Query      string
	Location   string
	Lat        *float64
	Lng        *float64
	Limit      int
	Radius     int
	Categories []string
}

// ParseQuery splits "padaria em Curitiba" into a term and a location. A query
// without a location preposition is returned whole with an empty location.
func ParseQuery(q string) (term, location string) {
	q = strings.Join(strings.Fields(q), " ")
	m := embeddedLocation.FindStringSubmatch(q)
	if m == nil {
		return q, ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// Resolve fills derived fields: the location embedded in the query, the
// coordinates as a location string, and the clamped limit.
func (p SearchParams) Resolve() SearchParams {
	term, embedded := ParseQuery(p.Query)
	p.Query = term
	switch {
	case p.Lat != nil && p.Lng != nil:
		p.Location = fmt.Sprintf("%.4f,%.4f", *p.Lat, *p.Lng)
	case strings.TrimSpace(p.Location) != "":
		p.Location = strings.TrimSpace(p.Location)
	default:
		p.Location = embedded
	}
	if p.Limit <= 0 {
		p.Limit = DefaultResults
	}
	p.Limit = min(max(p.Limit, MinResults), MaxResults)
	if p.Radius <= 0 {
		p.Radius = DefaultRadius
	}
	return p
}

// BuildSeed derives the generator seed from resolved parameters. Case,
// surrounding whitespace and category order do not change the seed.
func BuildSeed(p SearchParams) string {
	p = p.Resolve()
	cats := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			cats = append(cats, c)
		}
	}
	slices.Sort(cats)
	return strings.Join([]string{
		strings.ToLower(p.Query),
		strings.ToLower(p.Location),
		strconv.Itoa(p.Limit),
		strconv.Itoa(p.Radius),
		strings.Join(cats, ","),
	}, "|")
}
