// Command runs lists the evaluation history recorded under a data directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"shopping/internal/cfg"
	"shopping/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		dataPath = flag.String("data", "", "Data directory path (default DATA_PATH from config)")
		since    = flag.Duration("since", 0, "Only show runs from the last duration, e.g. 24h")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dataPath == "" {
		settings, err := cfg.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}
		*dataPath = settings.DataPath
	}
	if *dataPath == "" {
		log.Fatal().Msg("No data directory: set -data or DATA_PATH")
	}

	store, err := storage.New(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	var runs []storage.Run
	if *since > 0 {
		now := time.Now()
		runs, err = store.RunsInRange(now.Add(-*since), now)
	} else {
		runs, err = store.Runs()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read runs")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSOURCE\tSEED\tK\tMETRIC\tTRAIN\tTEST\tCORRECT\tTPR\tTNR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%.2f%%\t%.2f%%\n",
			r.Time.Format(time.RFC3339), r.Source, r.Seed, r.Neighbors, r.Metric,
			r.Train, r.Test, r.Correct, 100*r.Sensitivity, 100*r.Specificity)
	}
	if err := w.Flush(); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
