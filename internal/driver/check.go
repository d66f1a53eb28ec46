// Package driver runs the dataflow check over snapshot files on disk.
package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ember/internal/diag"
	"ember/internal/mir"
	"ember/internal/source"
	"ember/internal/types"
)

// SnapshotExt is the extension of lowered-module snapshot files.
const SnapshotExt = ".mir"

// Stage identifies a phase of checking a single snapshot.
type Stage uint8

const (
	StageDecode Stage = iota
	StageValidate
	StageDiagnose
)

func (s Stage) String() string {
	switch s {
	case StageDecode:
		return "decode"
	case StageValidate:
		return "validate"
	case StageDiagnose:
		return "diagnose"
	}
	return "unknown"
}

// Status reports how a stage ended.
type Status uint8

const (
	StatusRunning Status = iota
	StatusOK
	StatusFailed
)

// Event is a progress notification for one snapshot's stage.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
}

// CheckOptions configures a check run.
type CheckOptions struct {
	// MaxDiagnostics bounds the bag of each snapshot.
	MaxDiagnostics int
	// Jobs limits directory-level parallelism. <= 0 means GOMAXPROCS.
	Jobs int
	// Events, when non-nil, receives stage notifications. The channel is
	// never closed by the driver.
	Events chan<- Event
}

// FileResult содержит результат проверки одного снапшота.
type FileResult struct {
	Path   string
	Module *mir.Module
	Types  *types.Interner
	Files  *source.FileSet
	Bag    *diag.Bag
}

// CheckResult aggregates per-snapshot results in deterministic path order.
type CheckResult struct {
	Results []FileResult
}

// HasErrors reports whether any snapshot produced an error diagnostic.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Results {
		if r.Results[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Failed decides the run outcome, optionally escalating warnings.
func (r *CheckResult) Failed(warningsAsErrors bool) bool {
	if r.HasErrors() {
		return true
	}
	if !warningsAsErrors {
		return false
	}
	for i := range r.Results {
		if r.Results[i].Bag.HasWarnings() {
			return true
		}
	}
	return false
}

// TotalDiagnostics counts diagnostics across all snapshots.
func (r *CheckResult) TotalDiagnostics() int {
	n := 0
	for i := range r.Results {
		n += r.Results[i].Bag.Len()
	}
	return n
}

// CheckSnapshot decodes, validates and diagnoses a single snapshot file.
// Failures become diagnostics in the result bag, not returned errors, so a
// broken snapshot does not abort a directory run.
func CheckSnapshot(path string, opts CheckOptions) FileResult {
	res := FileResult{
		Path: path,
		Bag:  diag.NewBag(maxDiagnostics(opts)),
	}
	emit := func(stage Stage, status Status) {
		if opts.Events != nil {
			opts.Events <- Event{Path: path, Stage: stage, Status: status}
		}
	}

	emit(StageDecode, StatusRunning)
	f, err := os.Open(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
			"failed to load snapshot: "+err.Error()))
		emit(StageDecode, StatusFailed)
		return res
	}
	m, typesIn, fileSet, err := mir.ReadSnapshot(f)
	closeErr := f.Close()
	if err != nil {
		code := diag.SnapDecodeError
		if errors.Is(err, mir.ErrSchemaMismatch) {
			code = diag.SnapSchemaMismatch
		}
		res.Bag.Add(diag.NewError(code, source.Span{}, err.Error()))
		emit(StageDecode, StatusFailed)
		return res
	}
	if closeErr != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
			"failed to close snapshot: "+closeErr.Error()))
	}
	res.Module = m
	res.Types = typesIn
	res.Files = fileSet
	emit(StageDecode, StatusOK)

	emit(StageValidate, StatusRunning)
	if err := mir.Validate(m, typesIn); err != nil {
		// Broken structure makes the pass results meaningless. Stop here.
		res.Bag.Add(diag.NewError(diag.MirInvalidModule, source.Span{}, err.Error()))
		emit(StageValidate, StatusFailed)
		return res
	}
	emit(StageValidate, StatusOK)

	emit(StageDiagnose, StatusRunning)
	mir.DiagnoseDataflow(m, typesIn, diag.BagReporter{Bag: res.Bag})
	emit(StageDiagnose, StatusOK)

	return res
}

// ListSnapshots возвращает отсортированный список всех *.mir файлов в директории.
func ListSnapshots(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SnapshotExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every snapshot under dir in parallel. Results come back
// in sorted path order regardless of completion order.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*CheckResult, error) {
	files, err := ListSnapshots(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &CheckResult{}, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = CheckSnapshot(path, opts)
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return &CheckResult{Results: results}, err
	}
	return &CheckResult{Results: results}, nil
}

func maxDiagnostics(opts CheckOptions) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	return 100
}
