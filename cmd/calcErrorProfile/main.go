package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"ErrorProfile/pkg/countingHash"
	"ErrorProfile/pkg/errorProfile"
	"ErrorProfile/pkg/wechatwork"

	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/spf13/cobra"
)

// os
var (
	ex, _  = os.Executable()
	exPath = filepath.Dir(ex)
)

// flag
var (
	output        string
	errorsPerRead string
	xlsxPath      string
	htmlPath      string
	pngPath       string
	webhookKey    string
	configDir     string
	debug         bool

	ksize     uint
	coverage  int
	cutoff    int
	hashSize  float64
	nTables   int
	maxReads  float64
	checkExit int
)

var rootCmd = &cobra.Command{
	Use:   "calcErrorProfile [flags] <file> [file ...]",
	Short: "Calculate read error profile based on k-mer abundances of shotgun data.",
	Long: `Calculate the mismatch error profile for shotgun data, using a subset of
reads. The histogram is written to <first file>.errhist in the working directory
by default. Reads FASTA and FASTQ input, plain or gzipped.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	var flags = rootCmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file for histogram; defaults to <first filename>.errhist in cwd")
	flags.StringVar(&errorsPerRead, "errors-per-read", "", "output file for error positions of each checked read, gzipped if ending in .gz")
	flags.StringVar(&xlsxPath, "xlsx", "", "also write histogram and summary to this xlsx")
	flags.StringVar(&htmlPath, "html", "", "also plot error fraction by position to this html")
	flags.StringVar(&pngPath, "png", "", "also plot error fraction by position to this png")
	flags.StringVar(&webhookKey, "webhook", "", "enterprise WeChat webhook key to notify when done")
	flags.StringVar(&configDir, "config", exPath, "directory holding etc/params.txt, falls back to built-in defaults")
	flags.BoolVar(&debug, "debug", false, "debug log")

	flags.UintVarP(&ksize, "ksize", "k", 20, "k-mer length")
	flags.IntVar(&coverage, "coverage", 10, "median k-mer abundance at which a read is used for measurement")
	flags.IntVar(&cutoff, "cutoff", 3, "k-mer abundance at or below which a k-mer is untrusted")
	flags.Float64Var(&hashSize, "hashsize", 1e7, "counting hash table size")
	flags.IntVar(&nTables, "n-tables", 4, "number of counting hash tables")
	flags.Float64Var(&maxReads, "max-reads", 1e8, "stop after this many reads")
	flags.IntVar(&checkExit, "check-exit", 25000, "check whether enough reads were measured every this many reads")
}

func main() {
	var err = rootCmd.Execute()
	if err != nil && !errors.Is(err, errorProfile.ErrInsufficientReads) {
		slog.Error("calcErrorProfile", "error", err)
	}
	os.Exit(exitCode(err))
}

// exitCode is 255 for too few checked reads, 1 for other errors
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errorProfile.ErrInsufficientReads):
		return 255
	default:
		return 1
	}
}

// loadParams applies changed flags over etc/params.txt
func loadParams(cmd *cobra.Command) (errorProfile.Params, error) {
	params, err := errorProfile.LoadParams(configDir, errorProfile.EtcFS)
	if err != nil {
		return params, err
	}
	var flags = cmd.Flags()
	if flags.Changed("ksize") {
		params.K = ksize
	}
	if flags.Changed("coverage") {
		params.Coverage = coverage
	}
	if flags.Changed("cutoff") {
		params.Cutoff = cutoff
	}
	if flags.Changed("hashsize") {
		params.HashSize = uint64(hashSize)
	}
	if flags.Changed("n-tables") {
		params.NTables = nTables
	}
	if flags.Changed("max-reads") {
		params.MaxReads = int(maxReads)
	}
	if flags.Changed("check-exit") {
		params.CheckExit = checkExit
	}
	return params, params.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	var now = time.Now()
	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	slog.Debug("params", "params", fmt.Sprintf("%+v", params))

	var histPath = output
	if histPath == "" {
		histPath = filepath.Base(args[0]) + ".errhist"
	}

	ch, err := countingHash.New(params.K, params.HashSize, params.NTables)
	if err != nil {
		return err
	}
	var profile = errorProfile.NewProfile(params, ch)

	if errorsPerRead != "" {
		var perRead = errorProfile.CreatePerRead(errorsPerRead)
		defer simpleUtil.DeferClose(perRead)
		profile.ErrorsPerRead = perRead
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err = profile.Scan(ctx, args); err != nil {
		return err
	}
	slog.Debug("counting hash", "occupied", ch.OccupiedSlots(), "tableSizes", ch.TableSizes())

	var (
		bins    = profile.Histogram()
		summary = profile.Summary(histPath)
	)
	errorProfile.WriteHistogram(histPath, bins)
	fmt.Fprintln(os.Stderr)
	summary.Log()

	if xlsxPath != "" {
		simpleUtil.CheckErr(errorProfile.WriteXlsx(xlsxPath, bins, summary))
	}
	if len(bins) > 0 {
		if htmlPath != "" {
			errorProfile.PlotHTML(htmlPath, bins, summary)
		}
		if pngPath != "" {
			simpleUtil.CheckErr(errorProfile.PlotPNG(pngPath, bins))
		}
	} else if htmlPath != "" || pngPath != "" {
		slog.Warn("no checked reads, skip plot")
	}

	if err = wechatwork.NewNotificationSender(webhookKey).SendMarkdown(summary.Markdown()); err != nil {
		slog.Error("notify", "error", err)
	}

	slog.Info("Done", "time", time.Since(now))

	if !summary.Sufficient {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "** WARNING: not enough reads to get a good result")
		fmt.Fprintln(os.Stderr, "** Is this high diversity sample / small subset?")
		return errorProfile.ErrInsufficientReads
	}
	return nil
}
