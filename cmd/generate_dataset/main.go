// Command generate_dataset writes a synthetic benchmark dataset for
// offline smoke runs against the dummy model.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ahrav/shopbench/internal/testutils"
)

func main() {
	var (
		samplesPerTask = flag.Int("samples", 20, "Number of records per synthetic task")
		seed           = flag.Int64("seed", 0, "Generator seed; 0 uses the current time")
		outputPath     = flag.String("output", "data/development.json", "Output file path")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	records := testutils.GenerateDataset(testutils.GeneratorConfig{
		Seed:           *seed,
		SamplesPerTask: *samplesPerTask,
	})

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	f, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	if err := testutils.WriteDataset(f, records); err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close output file: %v", err)
	}

	log.Printf("Wrote %d records (seed %d) to %s", len(records), *seed, *outputPath)
}
