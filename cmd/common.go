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
	"fmt"
	"os"

	"github.com/petrokh/tolmach/internal/translator"
)

// defaultServices is the fixed fallback priority order.
var defaultServices = []string{"google", "mymemory", "systran", "ollama"}

type serviceOptions struct {
	googleCredentials string
	mymemoryEmail     string
	systranKey        string
	ollamaURL         string
	ollamaModel       string
}

// buildServices constructs the ordered service list from CLI parameters.
// Unknown names are skipped with a warning so a typo does not kill the
// whole chain.
func buildServices(names []string, opts serviceOptions) ([]translator.Service, error) {
	if len(names) == 0 {
		names = defaultServices
	}

	var list []translator.Service
	for _, name := range names {
		switch name {
		case "google":
			list = append(list, translator.NewGoogleService(opts.googleCredentials))
		case "mymemory":
			list = append(list, translator.NewMyMemoryService(opts.mymemoryEmail))
		case "systran":
			list = append(list, translator.NewSystranService(opts.systranKey))
		case "ollama":
			list = append(list, translator.NewOllamaService(opts.ollamaURL, opts.ollamaModel))
		default:
			fmt.Fprintf(os.Stderr, "Unknown service: %s, skipping\n", name)
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}
