package main

import (
	"flag"
	"io"
	"log"
	"log/slog"
	"regexp"
	"strings"

	gzip "github.com/klauspost/pgzip"

	"ErrorProfile/pkg/errorProfile"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/liserjrqlxue/goUtil/stringsUtil"
)

// flag
var (
	output = flag.String(
		"o",
		"",
		"output fastq, gzip if end with .gz",
	)
	refOutput = flag.String(
		"ref",
		"",
		"output reference fasta",
	)
	refLen = flag.Int(
		"refLen",
		10000,
		"reference length, sampled as circular",
	)
	numReads = flag.Int(
		"n",
		100000,
		"number of reads",
	)
	readLen = flag.Int(
		"l",
		100,
		"read length",
	)
	errPos = flag.String(
		"pos",
		"",
		"0-based error positions in read, separated by comma",
	)
	errRate = flag.Float64(
		"rate",
		0.1,
		"substitution probability at each error position",
	)
	rc = flag.Bool(
		"rc",
		false,
		"sample half of the reads from the reverse strand",
	)
	seed = flag.Int64(
		"seed",
		0,
		"random seed",
	)
)

var gz = regexp.MustCompile(`\.gz$`)

func main() {
	flag.Parse()
	if *output == "" {
		flag.PrintDefaults()
		log.Fatal("-o required!")
	}

	var positions []int
	if *errPos != "" {
		for _, s := range strings.Split(*errPos, ",") {
			positions = append(positions, stringsUtil.Atoi(s))
		}
	}

	var ref, reads, err = errorProfile.Simulate(errorProfile.SimConfig{
		RefLen:         *refLen,
		NumReads:       *numReads,
		ReadLen:        *readLen,
		ErrorPositions: positions,
		ErrorRate:      *errRate,
		RevComp:        *rc,
		Seed:           *seed,
	})
	simpleUtil.CheckErr(err)

	var (
		outF        = osUtil.Create(*output)
		w io.Writer = outF
	)
	defer simpleUtil.DeferClose(outF)
	if gz.MatchString(*output) {
		var gw = gzip.NewWriter(outF)
		defer simpleUtil.DeferClose(gw)
		w = gw
	}
	simpleUtil.CheckErr(errorProfile.WriteFastq(w, reads))

	if *refOutput != "" {
		var refF = osUtil.Create(*refOutput)
		defer simpleUtil.DeferClose(refF)
		simpleUtil.CheckErr(errorProfile.WriteFasta(refF, "ref", ref))
	}
	slog.Info("finish", "reads", len(reads), "refLen", len(ref), "errPos", positions)
}
