package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/annotate"
	"github.com/yumyai/neighbourann/pkg/config"
	"github.com/yumyai/neighbourann/pkg/report"
	"github.com/yumyai/neighbourann/pkg/tool"
)

const VERSION = "0.1.0"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliOptions struct {
	configPath   string
	verbose      bool
	cores        int
	noRGI        bool
	includeLoose bool
	outputName   string
	cleanup      bool
}

func NewRootCommand() *cobra.Command {
	opts := &cliOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "neighbourann <sequence-file> <output-dir>",
		Short: "Annotate neighbourhood sequences with Bakta and RGI into a CSV report",
		Long: `Annotate every sequence (one per line) of the input file with Bakta and,
unless --no-rgi is given, join RGI resistance predictions onto the genes by
locus tag. The report is written to <output-dir>/annotation<name>/.`,
		Args:          cobra.ExactArgs(2),
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	f.IntVarP(&opts.cores, "cores", "j", defaults.Cores, "number of sequences annotated in parallel")
	f.BoolVar(&opts.noRGI, "no-rgi", defaults.NoRGI, "skip RGI resistance annotation")
	f.BoolVar(&opts.includeLoose, "include-loose", defaults.IncludeLoose, "include loose RGI hits")
	f.StringVarP(&opts.outputName, "output-name", "n", defaults.OutputName, "suffix of the annotation directory and report")
	f.BoolVar(&opts.cleanup, "cleanup", defaults.CleanupTempFiles, "remove Bakta and RGI intermediate output")

	return cmd
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cmd *cobra.Command, opts *cliOptions, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("cores") {
		cfg.Cores = opts.cores
	}
	if f.Changed("no-rgi") {
		cfg.NoRGI = opts.noRGI
	}
	if f.Changed("include-loose") {
		cfg.IncludeLoose = opts.includeLoose
	}
	if f.Changed("output-name") {
		cfg.OutputName = opts.outputName
	}
	if f.Changed("cleanup") {
		cfg.CleanupTempFiles = opts.cleanup
	}
}

func run(cmd *cobra.Command, opts *cliOptions, sequenceFile, outputDir string) error {

	// Establish logger
	level := zapcore.InfoLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	if err := logger.InitLogger(level); err != nil {
		return err
	}
	defer logger.Sync()

	// Try load env
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env found, using local environment")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return err
	}
	applyFlags(cmd, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return err
	}

	runID := uuid.NewString()
	logger.Info("Start:",
		zap.String("Version", VERSION),
		zap.String("run_id", runID),
		zap.Int("cores", cfg.Cores),
		zap.Bool("no_rgi", cfg.NoRGI),
		zap.Bool("include_loose", cfg.IncludeLoose),
		zap.String("bakta_env", cfg.BaktaEnv),
		zap.String("rgi_env", cfg.RGIEnv))

	bakta := tool.NewBakta(tool.NewCommandExecutor(cfg.CondaExe, cfg.BaktaEnv), cfg.BaktaBin, cfg.BaktaDB)
	var rgi tool.ResistancePredictor
	if !cfg.NoRGI {
		rgi = tool.NewRGI(tool.NewCommandExecutor(cfg.CondaExe, cfg.RGIEnv), cfg.RGIBin)
	}

	annotator := annotate.NewAnnotator(bakta, rgi, cfg.CleanupTempFiles)
	annotator.RunID = runID

	driver := &annotate.Driver{
		Annotator:    annotator,
		OutputDir:    outputDir,
		OutputName:   cfg.OutputName,
		Cores:        cfg.Cores,
		NoRGI:        cfg.NoRGI,
		IncludeLoose: cfg.IncludeLoose,
		Tracker:      annotate.NewTaskTracker(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := driver.Run(ctx, sequenceFile)
	if err != nil {
		logger.Error("Annotation failed", zap.String("run_id", runID), zap.Error(err))
		return err
	}

	summary := report.Summarize(result.Runs)
	logger.Info("Done",
		zap.String("run_id", runID),
		zap.String("report", result.ReportPath),
		zap.Int("sequences", summary.Sequences),
		zap.Int("genes", summary.Genes),
		zap.Int("amr_genes", summary.AMRGenes),
		zap.Int("sequences_without_genes", summary.EmptySequence),
		zap.Strings("amr_families", summary.AMRFamilies))

	fmt.Fprintln(cmd.OutOrStdout(), result.ReportPath)
	return nil
}
