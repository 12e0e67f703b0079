package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"envirocheck/internal/analytics"
	"envirocheck/internal/core"
	"envirocheck/internal/report"
	"envirocheck/internal/repository"
	"envirocheck/internal/seed"

	"github.com/kr/pretty"
)

const reportTitle = "Environmental Compliance Report"

// Result is the outcome of one invocation.
type Result struct {
	ExitCode int
}

// Runner executes invocations. Zero-value fields fall back to the process
// defaults: stdout/stderr, LoadConfig, an HTTP analytics client and time.Now.
type Runner struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *core.Config
	Analytics analytics.Service
	Now       func() time.Time
}

// Run parses args and executes them.
func (r *Runner) Run(ctx context.Context, args []string) (Result, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return Result{ExitCode: ExitCode(err)}, err
	}
	return r.Execute(ctx, inv)
}

// Execute runs a parsed invocation.
func (r *Runner) Execute(ctx context.Context, inv Invocation) (Result, error) {
	err := r.execute(ctx, inv)
	return Result{ExitCode: ExitCode(err)}, err
}

// ExitCode maps an execution error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.ExitCode
	}
	var valErr *core.ValidationError
	if errors.As(err, &valErr) || errors.Is(err, repository.ErrInvalidImport) {
		return ExitInvalidInvocation
	}
	return ExitInternalError
}

func (r *Runner) execute(ctx context.Context, inv Invocation) error {
	cfg := r.Config
	if cfg == nil {
		loaded, err := core.LoadConfig()
		if err != nil {
			return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf("config: %v", err)}
		}
		cfg = loaded
	}
	logger := core.NewLoggerTo(r.stderr(), cfg.LogLevel)

	if inv.Command == CommandSeedInspect {
		return r.inspectSeed(inv.Arg)
	}

	repo := repository.NewRepository(cfg.DataDir, repository.WithLogger(logger.Slog()))
	lock, err := repo.Lock("envirocheck " + string(inv.Command))
	if err != nil {
		return &core.LockError{Operation: "acquire", Message: err.Error(), Err: err}
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release store lock", "error", err)
		}
	}()

	switch inv.Command {
	case CommandStandardsList:
		return r.listStandards(repo)
	case CommandStandardsReset:
		standards, err := repo.Reset()
		if err != nil {
			return &core.StorageError{Operation: "reset", Path: repo.BaseDir(), Err: err}
		}
		fmt.Fprintf(r.stdout(), "Restored %d default standards\n", len(standards))
		return nil
	case CommandStandardsExport:
		return r.exportStandards(repo, inv.Arg)
	case CommandStandardsImport:
		return r.importStandards(repo, inv.Arg)
	case CommandStandardsHistory:
		events, err := repo.History()
		if err != nil {
			return &core.StorageError{Operation: "history", Path: repo.BaseDir(), Err: err}
		}
		return writeHistory(r.stdout(), events)
	case CommandForecast:
		return r.forecast(ctx, inv, cfg, repo, logger)
	}

	wb, err := r.workbench(inv, cfg, repo, logger)
	if err != nil {
		return err
	}

	switch inv.Command {
	case CommandGenerate:
		return writeDataset(r.stdout(), wb, inv.Format)
	case CommandAssess:
		return writeAssessment(r.stdout(), wb, inv.Format)
	case CommandSeedEncode:
		encoded, err := seed.Encode(wb.Rows(), wb.SampleCount())
		if err != nil {
			return fmt.Errorf("encode dataset: %w", err)
		}
		fmt.Fprintln(r.stdout(), encoded)
		return nil
	case CommandReport:
		return r.writeReport(inv, wb, logger)
	}
	return fmt.Errorf("unhandled command %q", inv.Command)
}

// workbench builds a session over the stored standards with the invocation's
// overrides applied on top of cfg.
func (r *Runner) workbench(inv Invocation, cfg *core.Config, repo *repository.Repository, logger core.Logger, opts ...core.WorkbenchOption) (*core.Workbench, error) {
	standards, err := repo.Load()
	if err != nil {
		return nil, &core.StorageError{Operation: "load", Path: repo.BaseDir(), Err: err}
	}

	session := *cfg
	if inv.SeedSet {
		session.Seed = inv.Seed
	}
	if inv.Samples > 0 {
		session.Samples = inv.Samples
	}
	if inv.Margin > 0 {
		session.SafetyMargin = inv.Margin
	}

	opts = append([]core.WorkbenchOption{core.WithWorkbenchLogger(logger)}, opts...)
	wb, err := core.NewWorkbench(standards, &session, opts...)
	if err != nil {
		return nil, err
	}
	if inv.Standard != "" {
		if err := wb.SelectStandard(inv.Standard); err != nil {
			return nil, err
		}
	}
	if inv.Random {
		if err := wb.Generate(true); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func (r *Runner) inspectSeed(s string) error {
	decoded, ok := seed.Decode(s)
	if !ok {
		return invalidInvocationf("seed inspect: %q is not an encoded dataset", s)
	}

	w := r.stdout()
	fmt.Fprintf(w, "Samples: %d\n", decoded.SampleCount)
	fmt.Fprintf(w, "Rows:    %d\n", decoded.RowCount)
	fmt.Fprintf(w, "Values:  %d of %d\n", len(decoded.Values), decoded.SampleCount*decoded.RowCount)
	_, err := pretty.Fprintf(w, "%# v\n", decoded)
	return err
}

func (r *Runner) listStandards(repo *repository.Repository) error {
	standards, err := repo.Load()
	if err != nil {
		return &core.StorageError{Operation: "load", Path: repo.BaseDir(), Err: err}
	}
	return writeStandards(r.stdout(), standards)
}

func (r *Runner) exportStandards(repo *repository.Repository, path string) error {
	standards, err := repo.Load()
	if err != nil {
		return &core.StorageError{Operation: "load", Path: repo.BaseDir(), Err: err}
	}
	data, err := repository.ExportJSON(standards)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := r.stdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &core.StorageError{Operation: "export", Path: path, Err: err}
	}
	fmt.Fprintf(r.stdout(), "Exported %d standards to %s\n", len(standards), path)
	return nil
}

func (r *Runner) importStandards(repo *repository.Repository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &core.StorageError{Operation: "import", Path: path, Err: err}
	}
	standards, err := repo.Import(data)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidImport) {
			return err
		}
		return &core.StorageError{Operation: "import", Path: repo.BaseDir(), Err: err}
	}
	fmt.Fprintf(r.stdout(), "Imported %d standards from %s\n", len(standards), path)
	return nil
}

func (r *Runner) writeReport(inv Invocation, wb *core.Workbench, logger core.Logger) error {
	now := r.now()
	rep := report.Build(reportTitle, wb.Standard(), now, wb.Results())

	w := r.stdout()
	var file *os.File
	if inv.Out != "" {
		f, err := os.Create(inv.Out)
		if err != nil {
			return &core.StorageError{Operation: "report", Path: inv.Out, Err: err}
		}
		file, w = f, f
	}

	var err error
	switch inv.Format {
	case FormatJSON:
		err = report.WriteJSON(w, rep, now)
	default:
		err = report.WriteCSV(w, rep)
	}
	if file != nil {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &core.StorageError{Operation: "report", Path: inv.Out, Err: closeErr}
		}
	}
	if err != nil {
		return err
	}

	if inv.Out != "" {
		logger.Info("report written", "path", inv.Out, "standard", rep.Regulation.ID, "seed", wb.Seed())
	}
	return nil
}

func (r *Runner) forecast(ctx context.Context, inv Invocation, cfg *core.Config, repo *repository.Repository, logger core.Logger) error {
	svc := r.Analytics
	if svc == nil {
		if cfg.AnalyticsURL == "" {
			return &InvocationError{ExitCode: ExitConfigError, Message: "forecast: ENVIROCHECK_ANALYTICS_URL is not set"}
		}
		client, err := analytics.NewClient(&analytics.Config{BaseURL: cfg.AnalyticsURL})
		if err != nil {
			return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf("forecast: %v", err)}
		}
		svc = client.WithLogger(logger.Slog())
	}

	flows := analytics.NewFlows(ctx, svc)
	wb, err := r.workbench(inv, cfg, repo, logger, core.WithForecaster(flows))
	if err != nil {
		return err
	}

	result, err := wb.Forecast(ctx, inv.Parameter, inv.Periods)
	if err != nil {
		return err
	}
	return writeJSON(r.stdout(), result)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
