package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	dir    string
	config string
	db     string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{
		"PRINTLAB_DB_PATH", "PRINTLAB_DATA_DIR", "PRINTLAB_PROVIDER",
		"PRINTLAB_MODEL", "PRINTLAB_BASE_URL", "PRINTLAB_DEBUG",
		"GITHUB_TOKEN", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("PRINTLAB_DATA_DIR", dir)
	return env{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		db:     filepath.Join(dir, "jobs.db"),
	}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e env) seed(t *testing.T, rows string) {
	t.Helper()
	out, err := e.run(t, "seed", "--rows", rows, "--seed", "7")
	require.NoError(t, err)
	require.Contains(t, out, "Created "+rows+" print jobs")
}

func TestSeedThenStats(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "40")

	out, err := e.run(t, "stats", "--json")
	require.NoError(t, err)

	var stats struct {
		TotalPrints int64   `json:"total_prints"`
		SuccessRate float64 `json:"success_rate"`
		ByPrinter   []struct {
			Printer string `json:"printer"`
		} `json:"by_printer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 40, stats.TotalPrints)
	assert.Greater(t, stats.SuccessRate, 0.0)
	assert.NotEmpty(t, stats.ByPrinter)

	out, err = e.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total prints")
	assert.Contains(t, out, "Success by printer:")
}

func TestStatsWithoutDatabase(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "stats")
	assert.Error(t, err)
}

func TestQueryRunsThroughGuard(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "25")

	out, err := e.run(t, "query", "SELECT COUNT(*) AS n FROM print_jobs")
	require.NoError(t, err)
	var res struct {
		Success bool     `json:"success"`
		Columns []string `json:"columns"`
		Data    [][]any  `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, []string{"n"}, res.Columns)
	assert.EqualValues(t, 25, res.Data[0][0])

	out, err = e.run(t, "query", "DELETE FROM print_jobs")
	require.Error(t, err)
	assert.Contains(t, out, `"success": false`)
}

func TestSchema(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "5")

	out, err := e.run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"print_jobs"`)
	assert.Contains(t, out, `"failure_reason"`)
}

func TestSamples(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "samples")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "\n"))

	out, err = e.run(t, "samples", "fail")
	require.NoError(t, err)
	assert.Contains(t, out, "Common Failures")

	_, err = e.run(t, "samples", "zzzzqqqq")
	assert.Error(t, err)
}

func TestConfigInitAndPath(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+e.config)
	assert.FileExists(t, e.config)

	out, err = e.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = e.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, e.config+"\n", out)
}

func TestConfigShowMasksSecrets(t *testing.T) {
	e := newEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-abcdefghijklmnop")

	out, err := e.run(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-abcdefghijklmnop")
	assert.Contains(t, out, "sk-a…mnop")
	assert.Contains(t, out, e.db)
}

func TestUnknownProviderFailsEarly(t *testing.T) {
	e := newEnv(t)
	t.Setenv("PRINTLAB_PROVIDER", "carrier-pigeon")

	_, err := e.run(t, "samples")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type")
}

func TestAskAgainstOllama(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "30")

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"query_database","arguments":{"query":"SELECT COUNT(*) AS n FROM print_jobs"}}}]},"done":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"You have logged 30 prints."},"done":true}`))
	}))
	defer srv.Close()

	t.Setenv("PRINTLAB_PROVIDER", "ollama")
	t.Setenv("PRINTLAB_MODEL", "llama3.1:latest")
	t.Setenv("PRINTLAB_BASE_URL", srv.URL)

	out, err := e.run(t, "ask", "--show-tools", "How", "many", "prints?")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Contains(t, out, "→ query_database")
	assert.Contains(t, out, `"count":1`)
	assert.True(t, strings.HasSuffix(out, "You have logged 30 prints.\n"))
}

func TestVoiceNeedsOpenAIKey(t *testing.T) {
	e := newEnv(t)
	t.Setenv("PRINTLAB_PROVIDER", "ollama")

	audio := filepath.Join(e.dir, "note.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0644))

	_, err := e.run(t, "voice", audio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API key is required")
}

func TestVoiceWritesImage(t *testing.T) {
	e := newEnv(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"a tiny benchy boat"}`))
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"A tiny 3D printed boat"}}]}`))
	})
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// base64 of "PNGDATA"
		_, _ = w.Write([]byte(`{"created":1,"data":[{"b64_json":"UE5HREFUQQ=="}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("PRINTLAB_PROVIDER", "openai")
	t.Setenv("PRINTLAB_BASE_URL", srv.URL+"/")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	audio := filepath.Join(e.dir, "note.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0644))
	img := filepath.Join(e.dir, "out.png")

	out, err := e.run(t, "voice", audio, "--out", img)
	require.NoError(t, err)
	assert.Contains(t, out, "Transcript: a tiny benchy boat")
	assert.Contains(t, out, "Prompt:     A tiny 3D printed boat")

	data, err := os.ReadFile(img)
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestModelsMarksActiveModel(t *testing.T) {
	e := newEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:latest","model":"llama3.1:latest","size":4700000000},{"name":"qwen2.5:7b","model":"qwen2.5:7b","size":4400000000}]}`))
	}))
	defer srv.Close()

	t.Setenv("PRINTLAB_PROVIDER", "ollama")
	t.Setenv("PRINTLAB_BASE_URL", srv.URL)

	out, err := e.run(t, "--model", "qwen2.5:7b", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "* qwen2.5:7b")
	assert.Contains(t, out, "  llama3.1:latest")
	assert.Contains(t, out, "4.7 GB")
}
