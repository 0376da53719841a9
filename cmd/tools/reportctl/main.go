package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/ai"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/places"
)

type CLI struct {
	Normalize   NormalizeCmd   `cmd:"" help:"Normalize a raw report (JSON or model output) from a file or stdin"`
	Places      PlacesCmd      `cmd:"" help:"Preview the mock competitors for a query"`
	SeedCourses SeedCoursesCmd `cmd:"" name:"seed-courses" help:"Ask a running server to seed the course catalog"`
}

type NormalizeCmd struct {
	File  string `arg:"" optional:"" help:"Input file; stdin when omitted or '-'" type:"path"`
	Table bool   `short:"t" help:"Print a summary table instead of JSON"`
}

func (c *NormalizeCmd) Run(out io.Writer) error {
	var (
		data []byte
		err  error
	)
	if c.File == "" || c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return normalize(out, string(data), c.Table)
}

func normalize(out io.Writer, input string, asTable bool) error {
	rep, err := ai.NormalizeCompletion(input)
	if err != nil {
		return err
	}
	if !asTable {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(rep.Title)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Market size", rep.MarketSize},
		{"Growth", rep.GrowthRate},
		{"Competition", rep.CompetitionLevel},
		{"Entry barriers", rep.EntryBarriers},
		{"Audience", strings.Join(rep.TargetAudience, ", ")},
	})
	t.AppendSeparator()
	for _, p := range rep.KeyPlayers {
		visibility := "-"
		if p.VisibilityIndex != nil {
			visibility = fmt.Sprintf("%.0f", *p.VisibilityIndex)
		}
		t.AppendRow(table.Row{"Player " + p.Name, fmt.Sprintf("%.2f%% (visibility %s)", p.MarketShare, visibility)})
	}
	for _, s := range rep.CustomerSegments {
		t.AppendRow(table.Row{"Segment " + s.Name, fmt.Sprintf("%.2f%%", s.Value)})
	}
	t.Render()
	return nil
}

type PlacesCmd struct {
	Query      string   `arg:"" help:"Niche query, e.g. 'padaria em Curitiba'"`
	Location   string   `short:"l" help:"Location override"`
	Limit      int      `short:"n" default:"10" help:"Number of candidates (5-25)"`
	Radius     int      `default:"5000" help:"Search radius in meters"`
	Categories []string `short:"c" name:"category" help:"Category filter (repeatable)"`
}

func (c *PlacesCmd) Run(out io.Writer) error {
	params := places.SearchParams{
		Query:      c.Query,
		Location:   c.Location,
		Limit:      c.Limit,
		Radius:     c.Radius,
		Categories: c.Categories,
	}
	evidence := places.BuildCompetitorEvidence(places.Generate(params))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("seed: " + places.BuildSeed(params.Resolve()))
	t.AppendHeader(table.Row{"#", "Name", "Reviews", "Rating", "Visibility", "Address"})
	for i, e := range evidence {
		t.AppendRow(table.Row{i + 1, e.Name, e.ReviewCount, fmt.Sprintf("%.1f", e.Rating), e.VisibilityIndex, e.Address})
	}
	t.AppendFooter(table.Row{"", "", "", "", "chart", len(places.BuildVisibilityChartData(evidence))})
	t.Render()
	return nil
}

type SeedCoursesCmd struct {
	URL         string        `default:"http://localhost:8081" env:"COMPATH_URL" help:"Server base URL"`
	AdminSecret string        `env:"ADMIN_SECRET" required:"" help:"Admin secret of the server"`
	Timeout     time.Duration `default:"30s"`
}

func (c *SeedCoursesCmd) Run(out io.Writer) error {
	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.URL, "/")+"/api/v1/admin/seed-courses", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("X-Admin-Secret", c.AdminSecret)

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	fmt.Fprintf(out, "Response Status: %s\n", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("seed failed with status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("reportctl"),
		kong.Description("Operator tools for Compath reports."),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
