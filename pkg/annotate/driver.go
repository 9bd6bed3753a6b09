package annotate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/neighbourann/internal/util"
	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/model"
	"github.com/yumyai/neighbourann/pkg/report"
)

// Driver annotates every sequence of an input file and writes the report.
type Driver struct {
	Annotator    SequenceAnnotator
	OutputDir    string
	OutputName   string // suffix distinguishing reports of different runs
	Cores        int
	NoRGI        bool
	IncludeLoose bool
	Tracker      *TaskTracker
}

type Result struct {
	Runs       []model.AnnotationRun // input order
	ReportPath string
}

// AnnotateDir is the directory holding the report and per-sequence tool output.
func (d *Driver) AnnotateDir() string {
	return filepath.Join(d.OutputDir, "annotation"+d.OutputName)
}

func (d *Driver) ReportPath() string {
	return filepath.Join(d.AnnotateDir(), "annotation_detail"+d.OutputName+".csv")
}

// Run annotates the sequences in inputPath. Any task failure aborts the whole
// batch and no rows are written; the report is still closed with its header.
func (d *Driver) Run(ctx context.Context, inputPath string) (result *Result, err error) {
	if d.Cores < 1 {
		return nil, fmt.Errorf("core count must be at least 1, got %d", d.Cores)
	}
	if d.Tracker == nil {
		d.Tracker = NewTaskTracker()
	}

	annotateDir := d.AnnotateDir()
	if util.DirExists(annotateDir) {
		util.RemoveAllLogged(annotateDir)
	}
	if err := os.MkdirAll(annotateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create annotation directory: %w", err)
	}

	w, err := report.NewWriter(d.ReportPath(), d.NoRGI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close report: %w", cerr))
			result = nil
		}
	}()

	if err := w.WriteHeader(); err != nil {
		return nil, err
	}

	logger.Info("Reading seq file", zap.String("file", inputPath))
	tasks, err := model.ReadSequenceTasks(inputPath)
	if err != nil {
		return nil, err
	}
	d.Tracker.Queue(tasks...)

	runs, err := d.annotateAll(ctx, annotateDir, tasks)
	if err != nil {
		return nil, err
	}

	for _, run := range runs {
		if err := w.WriteRun(run); err != nil {
			return nil, err
		}
	}

	logger.Info("The annotation of neighbourhood sequences is available",
		zap.String("report", w.Path()),
		zap.Int("rows", w.Rows()))

	return &Result{Runs: runs, ReportPath: w.Path()}, nil
}

// annotateAll returns one run per task, at the task's index regardless of completion order.
func (d *Driver) annotateAll(ctx context.Context, dir string, tasks []model.SequenceTask) ([]model.AnnotationRun, error) {
	runs := make([]model.AnnotationRun, len(tasks))

	// no pool for a single core
	if d.Cores == 1 {
		for i, task := range tasks {
			run, err := d.annotateTask(ctx, dir, task)
			if err != nil {
				return nil, err
			}
			runs[i] = run
		}
		return runs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Cores)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			run, err := d.annotateTask(gctx, dir, task)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (d *Driver) annotateTask(ctx context.Context, dir string, task model.SequenceTask) (model.AnnotationRun, error) {
	d.Tracker.SetRunning(task.Ordinal)

	run, err := d.Annotator.AnnotateSequence(ctx, task.Sequence, model.Description(task.Ordinal), dir, d.NoRGI, d.IncludeLoose)
	if err != nil {
		d.Tracker.Fail(task.Ordinal, err)
		return nil, fmt.Errorf("sequence %d: %w", task.Ordinal, err)
	}

	d.Tracker.Complete(task.Ordinal, len(run))
	return run, nil
}
