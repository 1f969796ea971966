// Package voice turns a spoken idea into a generated image: speech is
// transcribed, rewritten into an image prompt by a chat model, and rendered
// by an image model. All three steps use the OpenAI API.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"printlab/config"
	"printlab/logging"
)

const promptSystem = "You are a creative assistant. " +
	"Convert the user's text into a detailed image generation prompt for DALL-E. " +
	"Return ONLY the prompt. Add details on lighting, style, mood, etc."

const (
	promptTemperature = 0.7
	promptMaxTokens   = 300
)

// Models records which model served each step.
type Models struct {
	STT   string `json:"stt"`
	LLM   string `json:"llm"`
	Image string `json:"img"`
}

// Result is the outcome of one pipeline run. Image is base64 PNG data; when
// image generation failed it is empty and ImageError says why.
type Result struct {
	Transcript string `json:"transcript"`
	Prompt     string `json:"prompt"`
	Image      string `json:"image,omitempty"`
	ImageError string `json:"image_error,omitempty"`
	Models     Models `json:"models_used"`
}

type Pipeline struct {
	client openai.Client
	cfg    config.VoiceConfig
	log    *zap.Logger
}

// NewPipeline creates a pipeline. Extra request options are passed to the
// OpenAI client (base URL overrides, retries).
func NewPipeline(apiKey string, cfg config.VoiceConfig, opts ...option.RequestOption) (*Pipeline, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	defaults := config.Default().Voice
	if cfg.STTModel == "" {
		cfg.STTModel = defaults.STTModel
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaults.LLMModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaults.ImageModel
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = defaults.ImageSize
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Pipeline{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		log:    logging.Named("voice"),
	}, nil
}

// Transcribe converts recorded audio to text. filename tells the API the
// audio format ("clip.wav", "memo.mp3").
func (p *Pipeline) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "temp.wav"
	}
	p.log.Info("Transcribing", zap.Int("bytes", len(audio)))

	res, err := p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(p.cfg.STTModel),
		File:  openai.File(bytes.NewReader(audio), filename, ""),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	p.log.Info("Got transcript", zap.String("text", res.Text))
	return res.Text, nil
}

// ImagePrompt asks the chat model to turn text into an image prompt.
func (p *Pipeline) ImagePrompt(ctx context.Context, text string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.LLMModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(promptSystem),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(promptTemperature),
		MaxTokens:   openai.Int(promptMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("prompt generation failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("prompt generation returned no choices")
	}

	prompt := strings.TrimSpace(completion.Choices[0].Message.Content)
	p.log.Info("Generated prompt", zap.String("prompt", prompt))
	return prompt, nil
}

// MakeImage renders prompt and returns the base64 image data.
func (p *Pipeline) MakeImage(ctx context.Context, prompt string) (string, error) {
	p.log.Info("Calling image model", zap.String("model", p.cfg.ImageModel))

	res, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:          openai.ImageModel(p.cfg.ImageModel),
		Prompt:         prompt,
		Size:           openai.ImageGenerateParamsSize(p.cfg.ImageSize),
		Quality:        openai.ImageGenerateParamsQualityStandard,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		N:              openai.Int(1),
	})
	if err != nil {
		p.log.Error("Error generating image", zap.Error(err))
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(res.Data) == 0 || res.Data[0].B64JSON == "" {
		p.log.Error("Image response carried no data")
		return "", errors.New("image generation returned no data")
	}

	p.log.Info("Image generated successfully")
	return res.Data[0].B64JSON, nil
}

// Run executes transcribe, prompt and image in order. Transcription and
// prompt failures abort the run. An image failure is logged and the result
// is returned without an image, carrying the error in ImageError.
func (p *Pipeline) Run(ctx context.Context, audio []byte, filename string) (*Result, error) {
	p.log.Info("Starting pipeline")

	transcript, err := p.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, err
	}

	prompt, err := p.ImagePrompt(ctx, transcript)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Transcript: transcript,
		Prompt:     prompt,
		Models: Models{
			STT:   p.cfg.STTModel,
			LLM:   p.cfg.LLMModel,
			Image: p.cfg.ImageModel,
		},
	}

	image, err := p.MakeImage(ctx, prompt)
	if err != nil {
		res.ImageError = err.Error()
	}
	res.Image = image

	p.log.Info("Pipeline finished", zap.Bool("image", image != ""))
	return res, nil
}
