// Copyright 2025 The vex Authors
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

// vexdump compiles a reference convolution with the codegen backend,
// prints the emitted module, and cross-checks the compiled result against
// the eager backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	vexfmt "github.com/vex-org/vex/base/fmt"
	"github.com/vex-org/vex/codegen"
	"github.com/vex-org/vex/compute"
	"github.com/vex-org/vex/examples/convolve"
	"github.com/vex-org/vex/value"
)

var (
	dumpModule  = flag.Bool("dump", true, "Print the emitted module")
	numberLines = flag.Bool("number", false, "Number the lines of the module dump")
	run         = flag.Bool("run", true, "Execute the module and cross-check against the eager backend")
	debug       = flag.Bool("debug", false, "Enable debug logging")
)

func eagerResult() ([]float64, error) {
	ctx := compute.New()
	out := convolve.Valid1D(ctx,
		value.VectorOf(ctx, convolve.ReferenceSignal),
		value.VectorOf(ctx, convolve.ReferenceFilter),
	)
	return value.Read[float64](out.Value())
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	flag.Parse()
	if !*debug {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	n, m := len(convolve.ReferenceSignal), len(convolve.ReferenceFilter)
	ctx := codegen.New("convolve")
	fn, err := convolve.BuildFunc(ctx, "conv", n, m)
	if err != nil {
		log.Fatal().Err(err).Msg("emitting the convolution failed")
	}
	module, err := ctx.Module()
	if err != nil {
		log.Fatal().Err(err).Msg("module construction failed")
	}
	log.Info().Str("module", module.Name).Int("signal", n).Int("filter", m).Msg("module emitted")

	if *dumpModule {
		dump := module.String()
		if *numberLines {
			dump = vexfmt.Number(dump)
		}
		fmt.Print(dump)
	}

	if !*run {
		return
	}
	start := time.Now()
	compiled, err := fn.Call(convolve.ReferenceSignal, convolve.ReferenceFilter)
	if err != nil {
		log.Fatal().Err(err).Msg("executing the module failed")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("module executed")

	eager, err := eagerResult()
	if err != nil {
		log.Fatal().Err(err).Msg("eager evaluation failed")
	}
	got := compiled.([]float64)
	for i, want := range eager {
		if got[i] != want {
			log.Fatal().Int("sample", i).Float64("eager", want).Float64("compiled", got[i]).
				Msg("backends disagree")
		}
	}
	log.Info().Int("samples", len(eager)).Msg("backends agree bit for bit")
	fmt.Println(got)
}
