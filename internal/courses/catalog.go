package courses

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

const summaryLength = 160

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Courses []catalogEntry `yaml:"courses"`
}

type catalogEntry struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	PriceCoins  int    `yaml:"price_coins"`
	Lessons     int    `yaml:"lessons"`
	Description string `yaml:"description"`
}

// LoadCatalog reads the embedded course catalog. Descriptions are sanitized
// and summaries derived from them; IDs are assigned by the store.
func LoadCatalog() ([]models.Course, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) ([]models.Course, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse course catalog: %w", err)
	}

	out := make([]models.Course, 0, len(f.Courses))
	seen := make(map[string]bool, len(f.Courses))
	for _, e := range f.Courses {
		slug := strings.TrimSpace(e.Slug)
		if slug == "" || strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("course entry needs a slug and a title: %+v", e)
		}
		if seen[slug] {
			return nil, fmt.Errorf("duplicate course slug %q", slug)
		}
		if e.PriceCoins < 0 || e.Lessons < 0 {
			return nil, fmt.Errorf("course %q has a negative price or lesson count", slug)
		}
		seen[slug] = true

		html := SanitizeHTML(e.Description)
		out = append(out, models.Course{
			Slug:            slug,
			Title:           strings.TrimSpace(e.Title),
			Summary:         TruncateText(HTMLToText(html), summaryLength),
			DescriptionHTML: html,
			PriceCoins:      e.PriceCoins,
			Lessons:         e.Lessons,
		})
	}
	return out, nil
}
