package places

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SourceMock marks places produced by Generate.
const SourceMock = "mock"

// Place is a competitor candidate for a search. Generated places are not
// persisted; they live for a single request.
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Address     string  `json:"address"`
	ReviewCount int     `json:"reviewCount"`
	Rating      float64 `json:"rating"`
	Popularity  int     `json:"popularity"`
	Source      string  `json:"source"`
}

var (
	namePrefixes = []string{
		"Casa", "Empório", "Estação", "Ponto", "Oficina", "Studio",
		"Mercado", "Villa", "Espaço", "Cantinho", "Rede", "Clube",
	}
	nameSuffixes = []string{
		"Central", "do Bairro", "Premium", "Express", "Popular",
		"da Praça", "Gourmet", "& Cia", "Prime", "Raiz",
	}
	streets = []string{
		"Rua das Flores", "Avenida Brasil", "Rua XV de Novembro", "Avenida Paulista",
		"Rua Augusta", "Alameda Santos", "Rua da Consolação", "Avenida Atlântica",
		"Rua Sete de Setembro", "Travessa do Comércio",
	}
	districts = []string{
		"Centro", "Jardim América", "Vila Nova", "Boa Vista",
		"Bela Vista", "Santa Cruz", "São José", "Alto da Glória",
	}
)

// Generate produces a reproducible list of fake places for p. The list has
// between MinResults and MaxResults candidates before repeated names are
// dropped, so it may come back shorter than the resolved limit.
func Generate(p SearchParams) []Place {
	p = p.Resolve()
	seed := BuildSeed(p)
	rnd := NewRand(seed)
	hash := hashSeed(seed)

	term := displayTerm(p.Query)
	location := p.Location
	if location == "" {
		location = "Brasil"
	}

	out := make([]Place, 0, p.Limit)
	seen := make(map[string]struct{}, p.Limit)
	// Prefixes rotate from a random start, so names only repeat once the
	// prefix list wraps around.
	start := rnd.Intn(len(namePrefixes))
	for i := 0; i < p.Limit; i++ {
		prefix := namePrefixes[(start+i)%len(namePrefixes)]
		name := fmt.Sprintf("%s %s %s", prefix, term, pick(rnd, nameSuffixes))
		name = strings.Join(strings.Fields(name), " ")
		address := fmt.Sprintf("%s, %d - %s, %s",
			pick(rnd, streets), 10+rnd.Intn(2990), pick(rnd, districts), location)

		// Skewed so a few places dominate, like real review counts.
		reviews := int(math.Round(math.Pow(rnd.Float64(), 2) * 1200))
		rating := math.Round((3.2+rnd.Float64()*1.8)*10) / 10
		popularity := rnd.Intn(101)

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, Place{
			ID:          fmt.Sprintf("mock-%08x-%d", hash, i),
			Name:        name,
			URL:         "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name+" "+location),
			Address:     address,
			ReviewCount: reviews,
			Rating:      rating,
			Popularity:  popularity,
			Source:      SourceMock,
		})
	}
	return out
}

// displayTerm title-cases the first letter of the search term.
func displayTerm(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "Negócio"
	}
	r, size := utf8.DecodeRuneInString(q)
	return string(unicode.ToUpper(r)) + q[size:]
}
