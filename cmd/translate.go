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
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petrokh/tolmach/internal/chain"
	"github.com/petrokh/tolmach/internal/detector"
	"github.com/petrokh/tolmach/internal/logging"
	"github.com/petrokh/tolmach/internal/translator"
	"github.com/petrokh/tolmach/internal/validator"
)

var (
	translateSource   string
	translateTarget   string
	translateTimeout  time.Duration
	translateServices []string
	translateValidate bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate a single text through the fallback chain",
	Long: `Translate a single text through the service fallback chain and print
the result. Services are tried in priority order; the first success wins.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(viper.GetString("log_level"), true)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")

		sourceLang := translateSource
		if sourceLang == "auto" {
			if detected, ok := detector.New().DetectISO(text); ok {
				sourceLang = detected
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", sourceLang)
			}
		}

		services, err := buildServices(translateServices, resolveServiceOptions())
		if err != nil {
			return err
		}

		chainCfg := chain.Config{Timeout: translateTimeout}
		if translateValidate {
			chainCfg.Validator = validator.New()
		}
		fallback := chain.New(services, chainCfg, logger)

		res, err := fallback.Translate(context.Background(), translator.Request{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: translateTarget,
		})
		if err != nil {
			return err
		}

		fmt.Println(res.Text)
		fmt.Fprintf(os.Stderr, "Translated %s to %s via %s in %s\n",
			sourceLang, translateTarget, res.Service, res.Latency.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translateSource, "source", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&translateTarget, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().DurationVar(&translateTimeout, "timeout", chain.DefaultTimeout, "Per-service request timeout")
	translateCmd.Flags().StringSliceVar(&translateServices, "services", nil, "Service priority order (default google,mymemory,systran,ollama)")
	translateCmd.Flags().BoolVar(&translateValidate, "validate", false, "Reject results not in the target language")

	translateCmd.Flags().StringVar(&googleCredentials, "google-credentials", "", "Path to Google Cloud credentials")
	translateCmd.Flags().StringVar(&mymemoryEmail, "mymemory-email", "", "MyMemory email (for higher limits)")
	translateCmd.Flags().StringVar(&systranKey, "systran-key", "", "Systran API key")
	translateCmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL")
	translateCmd.Flags().StringVar(&ollamaModel, "ollama-model", "", "Ollama model name")

	_ = translateCmd.MarkFlagRequired("target")
}
