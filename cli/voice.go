package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/cobra"

	"printlab/voice"
)

func (a *app) voiceCmd() *cobra.Command {
	var (
		outPath string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "voice <audio-file>",
		Short: "Turn a spoken description into a generated image",
		Long: `Transcribes the recording, rewrites it as an image prompt and generates
an image. Uses OpenAI regardless of the chat provider, so OPENAI_API_KEY
must be set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}

			var opts []option.RequestOption
			if a.cfg.Provider.Type == "openai" && a.cfg.Provider.BaseURL != "" {
				opts = append(opts, option.WithBaseURL(a.cfg.Provider.BaseURL))
			}
			p, err := voice.NewPipeline(a.cfg.OpenAIKey(), a.cfg.Voice, opts...)
			if err != nil {
				return err
			}

			res, err := p.Run(cmd.Context(), audio, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			saved := ""
			if res.Image != "" && outPath != "" {
				img, err := base64.StdEncoding.DecodeString(res.Image)
				if err != nil {
					return fmt.Errorf("failed to decode image: %w", err)
				}
				if err := os.WriteFile(outPath, img, 0644); err != nil {
					return fmt.Errorf("failed to write image: %w", err)
				}
				saved = outPath
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "Transcript: %s\n", res.Transcript)
			fmt.Fprintf(out, "Prompt:     %s\n", res.Prompt)
			switch {
			case saved != "":
				fmt.Fprintf(out, "Image:      %s\n", saved)
			case res.Image == "":
				fmt.Fprintf(out, "Image:      generation failed: %s\n", res.ImageError)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "voice.png", "Where to write the generated PNG (empty to skip)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result, base64 image included, as JSON")
	return cmd
}
