package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printlab/config"
)

type fakeOpenAI struct {
	transcript  string
	prompt      string
	imageStatus int
	chatReq     map[string]any
	imageReq    map[string]any
	audioFile   string
}

func (f *fakeOpenAI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		f.audioFile = hdr.Filename
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": f.transcript})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.chatReq))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": f.prompt},
			}},
		})
	})
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.imageReq))
		w.Header().Set("Content-Type", "application/json")
		if f.imageStatus != 0 {
			w.WriteHeader(f.imageStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"content policy","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"b64_json": "aGVsbG8="}},
		})
	})
	return mux
}

func newTestPipeline(t *testing.T, fake *fakeOpenAI) *Pipeline {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewPipeline("test-key", config.VoiceConfig{},
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func TestNewPipelineRequiresKey(t *testing.T) {
	_, err := NewPipeline("", config.VoiceConfig{})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	fake := &fakeOpenAI{
		transcript: "a dragon made of glass",
		prompt:     "  A translucent glass dragon, soft studio lighting  \n",
	}
	p := newTestPipeline(t, fake)

	res, err := p.Run(context.Background(), []byte("RIFF....WAVE"), "idea.wav")
	require.NoError(t, err)

	assert.Equal(t, "a dragon made of glass", res.Transcript)
	assert.Equal(t, "A translucent glass dragon, soft studio lighting", res.Prompt)
	assert.Equal(t, "aGVsbG8=", res.Image)
	assert.Empty(t, res.ImageError)
	assert.Equal(t, Models{STT: "whisper-1", LLM: "gpt-4o-mini", Image: "dall-e-3"}, res.Models)
	assert.Equal(t, "idea.wav", fake.audioFile)

	assert.InDelta(t, 0.7, fake.chatReq["temperature"], 1e-9)
	assert.EqualValues(t, 300, fake.chatReq["max_tokens"])
	msgs := fake.chatReq["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, promptSystem, msgs[0].(map[string]any)["content"])
	assert.Equal(t, "a dragon made of glass", msgs[1].(map[string]any)["content"])

	assert.Equal(t, "dall-e-3", fake.imageReq["model"])
	assert.Equal(t, "1024x1024", fake.imageReq["size"])
	assert.Equal(t, "standard", fake.imageReq["quality"])
	assert.Equal(t, "b64_json", fake.imageReq["response_format"])
}

func TestRunImageFailureKeepsTranscriptAndPrompt(t *testing.T) {
	fake := &fakeOpenAI{
		transcript:  "a castle",
		prompt:      "A castle at dusk",
		imageStatus: http.StatusBadRequest,
	}
	p := newTestPipeline(t, fake)

	res, err := p.Run(context.Background(), []byte("audio"), "")
	require.NoError(t, err)
	assert.Equal(t, "a castle", res.Transcript)
	assert.Equal(t, "A castle at dusk", res.Prompt)
	assert.Empty(t, res.Image)
	assert.NotEmpty(t, res.ImageError)
	assert.Equal(t, "temp.wav", fake.audioFile)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"image_error"`)

	_, err = p.MakeImage(context.Background(), "A castle at dusk")
	assert.Error(t, err)
}

func TestResultJSON(t *testing.T) {
	raw, err := json.Marshal(Result{Transcript: "t", Prompt: "p", Models: Models{STT: "s", LLM: "l", Image: "i"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript":"t","prompt":"p","models_used":{"stt":"s","llm":"l","img":"i"}}`, string(raw))
}
