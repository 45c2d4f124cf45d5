// Command gensessions writes a synthetic shopping-session CSV in the format
// the shopping command reads.
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"shopping/internal/dataset"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		rows   = flag.Int("rows", 1000, "Number of sessions to generate")
		seed   = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		output = flag.String("output", "", "Output file (default stdout)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *rows < 1 {
		log.Fatal().Int("rows", *rows).Msg("At least one row is required")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ds := dataset.Synthesize(*rows, rand.New(rand.NewSource(*seed)))

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer f.Close()
		out = f
	}

	if err := dataset.Write(out, ds); err != nil {
		log.Fatal().Err(err).Msg("Failed to write sessions")
	}

	log.Info().
		Int("rows", ds.Len()).
		Int("positives", ds.Positives()).
		Int64("seed", *seed).
		Str("output", *output).
		Msg("Generated sample sessions")
}
