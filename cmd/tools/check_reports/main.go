package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/logger"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

const latestReportsQuery = `
	SELECT r.title, r.query, r.competition_level, u.email, r.embedding IS NOT NULL, r.created_at
	FROM reports r
	JOIN users u ON u.id = r.user_id
	ORDER BY r.created_at DESC
	LIMIT $1`

func main() {
	limit := flag.Int("n", 10, "number of reports to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{}).WithError(err).Fatal("config")
	}
	log := logger.New(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("connect")
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, latestReportsQuery, *limit)
	if err != nil {
		log.WithError(err).Fatal("query reports")
	}
	if err := render(os.Stdout, rows); err != nil {
		log.WithError(err).Fatal("render")
	}
}

func render(out io.Writer, rows pgx.Rows) error {
	defer rows.Close()

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Title", "Query", "Competition", "User", "Embedded", "Created At"})

	count := 0
	for rows.Next() {
		var title, query, competition, email string
		var embedded bool
		var createdAt time.Time
		if err := rows.Scan(&title, &query, &competition, &email, &embedded, &createdAt); err != nil {
			return err
		}
		t.AppendRow(table.Row{report.Clamp(title, 40), report.Clamp(query, 40), competition, email, embedded, createdAt.Format("2006-01-02 15:04")})
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", count})
	t.Render()
	return nil
}
