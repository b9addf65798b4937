/*
Copyright © 2025 Petro Khomenko

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petrokh/tolmach/internal"
	"github.com/petrokh/tolmach/internal/cache"
	"github.com/petrokh/tolmach/internal/chain"
	"github.com/petrokh/tolmach/internal/detector"
	"github.com/petrokh/tolmach/internal/history"
	"github.com/petrokh/tolmach/internal/logging"
	"github.com/petrokh/tolmach/internal/session"
	"github.com/petrokh/tolmach/internal/validator"
)

var (
	interpretSource   string
	interpretTarget   string
	interpretDebounce time.Duration
	interpretTimeout  time.Duration
	interpretServices []string
	interpretValidate bool
	noHistory         bool

	googleCredentials string
	mymemoryEmail     string
	systranKey        string
	ollamaURL         string
	ollamaModel       string
)

var interpretCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Run a live interpretation session",
	Long: `Run a live interpretation session.

Each line read from stdin is treated as one recognized-text event, the way
a speech recognizer emits partial results during dictation. Rapid updates
are debounced; only text that has stopped changing is sent for translation.

Translated results are printed to stdout and persisted to the history
database. Use --source auto to detect the spoken language per utterance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(viper.GetString("log_level"), true)
		if err != nil {
			return err
		}

		if interpretTarget == "" {
			return fmt.Errorf("target language is required")
		}

		services, err := buildServices(interpretServices, resolveServiceOptions())
		if err != nil {
			return err
		}

		chainCfg := chain.Config{Timeout: interpretTimeout}
		if interpretValidate {
			chainCfg.Validator = validator.New()
		}
		fallback := chain.New(services, chainCfg, logger)

		var store *history.Store
		if !noHistory {
			dbPath := viper.GetString("db")
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			store, err = history.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer store.Close()
		}

		cfg := session.Config{
			Debounce: interpretDebounce,
			OnState: func(st session.State) {
				switch {
				case st.ErrorMessage != "":
					fmt.Printf("!! %s\n", st.ErrorMessage)
				case !st.IsTranslating && st.TranslatedText != "":
					fmt.Printf(">> %s\n", st.TranslatedText)
				}
			},
			OnTranslated: func(ex internal.Exchange) {
				if store == nil {
					return
				}
				if err := store.Save(context.Background(), ex); err != nil {
					logger.Warn().Err(err).Msg("failed to persist exchange")
				}
			},
		}

		ctrl := session.NewController(fallback, cache.New(), cfg, logger)
		defer ctrl.Close()

		var det *detector.Detector
		if interpretSource == "auto" {
			det = detector.New()
		}

		logger.Info().
			Str("source", interpretSource).
			Str("target", interpretTarget).
			Dur("debounce", interpretDebounce).
			Msg("interpretation session started, reading recognized text from stdin")

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			sourceLang := interpretSource
			if det != nil {
				if detected, ok := det.DetectISO(line); ok {
					sourceLang = detected
				}
			}
			ctrl.Submit(line, sourceLang, interpretTarget)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		// Give the last debounced operation a chance to finish.
		deadline := time.Now().Add(interpretDebounce + 2*interpretTimeout)
		for time.Now().Before(deadline) {
			if st := ctrl.Snapshot(); !st.IsTranslating {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}

		return nil
	},
}

// resolveServiceOptions merges flags with viper config/env values; flags win.
func resolveServiceOptions() serviceOptions {
	opts := serviceOptions{
		googleCredentials: googleCredentials,
		mymemoryEmail:     mymemoryEmail,
		systranKey:        systranKey,
		ollamaURL:         ollamaURL,
		ollamaModel:       ollamaModel,
	}
	if opts.googleCredentials == "" {
		opts.googleCredentials = viper.GetString("google_credentials")
	}
	if opts.mymemoryEmail == "" {
		opts.mymemoryEmail = viper.GetString("mymemory_email")
	}
	if opts.systranKey == "" {
		opts.systranKey = viper.GetString("systran_key")
	}
	if opts.ollamaURL == "" {
		opts.ollamaURL = viper.GetString("ollama_url")
	}
	if opts.ollamaModel == "" {
		opts.ollamaModel = viper.GetString("ollama_model")
	}
	return opts
}

func init() {
	rootCmd.AddCommand(interpretCmd)

	interpretCmd.Flags().StringVarP(&interpretSource, "source", "s", "auto", "Source language code")
	interpretCmd.Flags().StringVarP(&interpretTarget, "target", "t", "", "Target language code (required)")
	interpretCmd.Flags().DurationVar(&interpretDebounce, "debounce", session.DefaultDebounce, "Wait for recognized text to settle before translating")
	interpretCmd.Flags().DurationVar(&interpretTimeout, "timeout", chain.DefaultTimeout, "Per-service request timeout")
	interpretCmd.Flags().StringSliceVar(&interpretServices, "services", nil, "Service priority order (default google,mymemory,systran,ollama)")
	interpretCmd.Flags().BoolVar(&interpretValidate, "validate", false, "Reject results not in the target language")
	interpretCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not persist exchanges")

	interpretCmd.Flags().StringVar(&googleCredentials, "google-credentials", "", "Path to Google Cloud credentials")
	interpretCmd.Flags().StringVar(&mymemoryEmail, "mymemory-email", "", "MyMemory email (for higher limits)")
	interpretCmd.Flags().StringVar(&systranKey, "systran-key", "", "Systran API key")
	interpretCmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL")
	interpretCmd.Flags().StringVar(&ollamaModel, "ollama-model", "", "Ollama model name")

	_ = interpretCmd.MarkFlagRequired("target")
}
