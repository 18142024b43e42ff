// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides a diagnostic tool to print the static engine
// configuration a set of vmt19937/vsfmt19937 flags would construct.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vrandgen/vrandgen/vmt19937"
	"github.com/vrandgen/vrandgen/vsfmt19937"
)

func main() {
	generator := flag.String("generator", "mt19937", "generator family: mt19937 or sfmt19937")
	width := flag.Int("width", 32, "register width in bits")
	mode := flag.String("mode", "scalar", "query mode: scalar, block16, or statesize")
	flag.Parse()

	qm, err := parseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch *generator {
	case "mt19937":
		cfg := vmt19937.Config{Width: *width, Mode: vmt19937.QueryMode(qm)}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printConfig("MT19937", cfg.Width, cfg.Mode.String(), cfg.NStreams())
	case "sfmt19937":
		cfg := vsfmt19937.Config{Width: *width, Mode: vsfmt19937.QueryMode(qm)}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printConfig("SFMT19937", cfg.Width, cfg.Mode.String(), cfg.NStreams())
	default:
		fmt.Fprintf(os.Stderr, "unknown generator %q: want mt19937 or sfmt19937\n", *generator)
		os.Exit(1)
	}
}

func parseMode(s string) (int, error) {
	switch s {
	case "scalar":
		return 0, nil
	case "block16":
		return 1, nil
	case "statesize":
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: want scalar, block16, or statesize", s)
	}
}

func printConfig(family string, width int, mode string, nStreams int) {
	fmt.Printf("Generator: %s\n", family)
	fmt.Printf("Width: %d bits\n", width)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("Streams: %d\n", nStreams)
}
