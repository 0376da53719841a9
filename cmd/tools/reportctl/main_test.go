package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FencedModelOutput(t *testing.T) {
	input := "Claro! Segue:\n```json\n{\"topic\": \"Lavanderias\", \"targetAudience\": \"estudantes; famílias\"}\n```"

	var out bytes.Buffer
	require.NoError(t, normalize(&out, input, false))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Lavanderias", got["title"])
	assert.Len(t, got["customerSegments"], 2)
}

func TestNormalize_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, normalize(&out, `{"title": "Pet shops", "keyPlayers": [{"name": "Cão Feliz", "share": "40"}]}`, true))
	assert.Contains(t, out.String(), "Pet shops")
	assert.Contains(t, out.String(), "Player Cão Feliz")
	assert.Contains(t, out.String(), "100.00%")
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	assert.Error(t, normalize(&bytes.Buffer{}, "sem json aqui", false))
}

func parse(t *testing.T, args ...string) (*kong.Context, *bytes.Buffer) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	parser, err := kong.New(&cli, kong.Name("reportctl"), kong.BindTo(&out, (*io.Writer)(nil)), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, &out
}

func TestNormalizeCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"niche": "Sorveterias"}`), 0o644))

	ctx, out := parse(t, "normalize", path)
	require.NoError(t, ctx.Run())
	assert.Contains(t, out.String(), `"title": "Sorveterias"`)
}

func TestPlacesCmd_Deterministic(t *testing.T) {
	ctx, first := parse(t, "places", "padaria em Curitiba", "-n", "8")
	require.NoError(t, ctx.Run())
	ctx, second := parse(t, "places", "padaria em Curitiba", "-n", "8")
	require.NoError(t, ctx.Run())

	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "Curitiba")
}

func TestSeedCoursesCmd(t *testing.T) {
	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Admin-Secret")
		assert.Equal(t, "/api/v1/admin/seed-courses", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, out := parse(t, "seed-courses", "--url", srv.URL, "--admin-secret", "s3cret")
	require.NoError(t, ctx.Run())
	assert.Equal(t, "s3cret", gotSecret)
	assert.Contains(t, out.String(), "200")
}
