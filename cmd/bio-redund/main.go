package main

/*
  bio-redund merges N pre-sorted LEB36 profile streams, eliminating
  records whose canonical form duplicates the most recently preserved
  record, and writes the survivors back out as rolling data/index
  segments. For more information, see github.com/vntrseek/redund/redund/doc.go
*/

import (
	"context"
	"flag"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/vntrseek/redund/redund"
	"github.com/vntrseek/redund/sortonly"
)

var (
	inputDir         = flag.String("input-dir", "", "directory to scan for *.leb36.renumbered input files")
	outputPath       = flag.String("output", "", "output data file path (basename used for segment naming unless -n is set)")
	outDir           = flag.String("out-dir", "", "directory for rolled output segments, defaults to output's directory")
	identicalOnly    = flag.Bool("identical-only", false, "skip the rotation search; compare profiles only in their given orientation")
	singleOutfile    = flag.Bool("n", false, "write a single output file instead of rolling 100000-record segments")
	compressSegments = flag.Bool("compress", false, "gzip each output data and index segment")
	sortOnlyFlag     = flag.Bool("s", false, "sort-only auxiliary mode: sort a single input file, do not merge or dedup")
	sortOnlyInput    = flag.String("sort-input", "", "input file to sort, used only with -s")
	sortOnlySidecar  = flag.String("sort-sidecar-db", "", "sidecar sqlite database path, used only with -s")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	// Unlike doppelmark (which takes no positional arguments), bio-redund
	// treats trailing positional arguments as an explicit input file list,
	// so there is no "unparsed flags" check here: flag.Args() below is the
	// expected, not erroneous, home for them.

	if *sortOnlyFlag {
		n, err := sortonly.Run(&sortonly.Opts{
			InputPath:     *sortOnlyInput,
			OutputPath:    *outputPath,
			SidecarDB:     *sortOnlySidecar,
			IdenticalOnly: *identicalOnly,
		})
		if err != nil {
			log.Fatalf(err.Error())
		}
		log.Printf("bio-redund: sort-only pass complete, %d records sorted", n)
		return
	}

	opts := redund.Opts{
		InputDir:         *inputDir,
		InputPaths:       flag.Args(),
		OutputPath:       *outputPath,
		OutDir:           *outDir,
		IdenticalOnly:    *identicalOnly,
		SingleOutfile:    *singleOutfile,
		CompressSegments: *compressSegments,
		Debug:            os.Getenv("DEBUG") == "1",
	}

	stats, err := redund.Run(context.Background(), &opts)
	if err != nil {
		log.Fatalf(err.Error())
	}
	log.Printf("bio-redund: %s", stats)
	log.Debug.Printf("exiting")
}
