package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/places"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

// maxSeededPlayers bounds how many evidence places become key players when
// the model names none.
const maxSeededPlayers = 5

// GeneratedReport is a normalized report plus the material it was built from.
type GeneratedReport struct {
	Report   report.Report
	Evidence []places.Evidence
	// Embedding is nil when no embedder is configured or embedding failed.
	Embedding []float32
}

// ReportGenerator turns a niche query into a normalized market report.
type ReportGenerator struct {
	llm      Completer
	embedder Embedder
	log      logrus.FieldLogger
}

// NewReportGenerator wires a generator. embedder may be nil.
func NewReportGenerator(llm Completer, embedder Embedder, log logrus.FieldLogger) *ReportGenerator {
	return &ReportGenerator{llm: llm, embedder: embedder, log: log}
}

func (g *ReportGenerator) Generate(ctx context.Context, query string) (*GeneratedReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	evidence := places.BuildCompetitorEvidence(places.Generate(places.SearchParams{Query: query}))
	prompt := buildReportPrompt(query, evidence)

	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if len(cleanPlayers(raw)) == 0 {
		raw["keyPlayers"] = seedPlayers(evidence)
	} else {
		attachVisibility(raw, evidence)
	}
	if _, ok := raw["topic"]; !ok {
		raw["topic"] = query
	}

	out := &GeneratedReport{Report: report.Normalize(raw), Evidence: evidence}

	if g.embedder != nil {
		emb, err := g.embedder.GenerateEmbedding(ctx, out.Report.Title+"\n"+query)
		if err != nil {
			g.log.WithError(err).WithField("query", query).Warn("report embedding failed")
		} else {
			out.Embedding = emb
		}
	}
	return out, nil
}

// complete asks in JSON mode first and falls back to a plain completion when
// the answer cannot be parsed.
func (g *ReportGenerator) complete(ctx context.Context, prompt string) (report.Raw, error) {
	resp, err := g.llm.GenerateCompletion(ctx, prompt, true)
	if err == nil {
		raw, parseErr := parseReportJSON(resp)
		if parseErr == nil {
			return raw, nil
		}
		g.log.WithError(parseErr).Debug("JSON mode answer unparsable, retrying in text mode")
	} else {
		g.log.WithError(err).Debug("JSON mode completion failed, retrying in text mode")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	resp, err = g.llm.GenerateCompletion(ctx, prompt, false)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	raw, err := parseReportJSON(resp)
	if err != nil {
		g.log.WithField("response", report.Clamp(resp, 500)).Warn("model answer is not a JSON object")
		return nil, err
	}
	return raw, nil
}

func buildReportPrompt(query string, evidence []places.Evidence) string {
	var sb strings.Builder
	for _, e := range topEvidence(evidence, 8) {
		fmt.Fprintf(&sb, "- %s (%d avaliações, nota %.1f, visibilidade %d)\n", e.Name, e.ReviewCount, e.Rating, e.VisibilityIndex)
	}

	return fmt.Sprintf(`Você é um analista de mercado especializado em pequenos negócios no Brasil.
Produza uma análise de mercado para o nicho: %q

Concorrentes observados na região:
%s
Responda APENAS com um objeto JSON neste formato:
{
  "title": "título curto da análise",
  "marketSize": "tamanho estimado do mercado",
  "growthRate": "taxa de crescimento anual",
  "competitionLevel": "Baixa | Média | Alta",
  "entryBarriers": "principais barreiras de entrada",
  "targetAudience": ["público 1", "público 2"],
  "keyPlayers": [{"name": "concorrente", "market_share": 25}],
  "customerSegments": [{"name": "segmento", "percentage": 40}],
  "opportunities": ["..."],
  "challenges": ["..."],
  "recommendations": ["..."],
  "strengths": ["..."],
  "weaknesses": ["..."]
}
As participações de mercado e os percentuais dos segmentos devem somar 100.`, query, sb.String())
}

func cleanPlayers(raw report.Raw) []any {
	list, _ := raw["keyPlayers"].([]any)
	return list
}

// seedPlayers turns the most reviewed places into key players, with shares
// proportional to reviews. Normalize rescales them to 100.
func seedPlayers(evidence []places.Evidence) []any {
	top := topEvidence(evidence, maxSeededPlayers)
	out := make([]any, 0, len(top))
	for _, e := range top {
		out = append(out, map[string]any{
			"name":            e.Name,
			"market_share":    float64(e.ReviewCount),
			"visibilityIndex": float64(e.VisibilityIndex),
		})
	}
	return out
}

// attachVisibility copies the evidence score onto model-named players that
// match a place by name and carry no score of their own.
func attachVisibility(raw report.Raw, evidence []places.Evidence) {
	byName := make(map[string]int, len(evidence))
	for _, e := range evidence {
		byName[strings.ToLower(strings.TrimSpace(e.Name))] = e.VisibilityIndex
	}
	for _, item := range cleanPlayers(raw) {
		p, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if p["visibilityIndex"] != nil {
			continue
		}
		name, _ := p["name"].(string)
		if vi, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			p["visibilityIndex"] = float64(vi)
		}
	}
}

func topEvidence(evidence []places.Evidence, n int) []places.Evidence {
	sorted := make([]places.Evidence, len(evidence))
	copy(sorted, evidence)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReviewCount > sorted[j].ReviewCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// NormalizeCompletion parses and normalizes a raw model answer. Operators use
// it to replay stored completions.
func NormalizeCompletion(resp string) (report.Report, error) {
	raw, err := parseReportJSON(resp)
	if err != nil {
		return report.Report{}, err
	}
	return report.Normalize(raw), nil
}
