package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Stage is one external build-tool invocation of the grading pipeline.
type Stage struct {
	Name string
	Argv []string
}

// StageResult records the outcome of one stage. A stage that never ran
// because an earlier one failed is recorded with Skipped set and no
// output.
type StageResult struct {
	Name    string
	Ok      bool
	Skipped bool
	// Stdout+stderr, captured only when the stage fails.
	CombinedOutput string
}

// Observer receives stage lifecycle events while the pipeline runs.
type Observer interface {
	StartStage(name string)
	FinishStage(result StageResult)
}

// DefaultStages is the fixed Maven sequence: install dependencies
// without compiling or testing, compile test sources, run the tests.
// mvnBin overrides the maven executable; empty means "mvn" from PATH.
func DefaultStages(mvnBin string) []Stage {
	if mvnBin == "" {
		mvnBin = "mvn"
	}
	return []Stage{
		{Name: "mvn install", Argv: []string{mvnBin, "install", "-DskipTests=true", "-Dmaven.compile.skip=true"}},
		{Name: "mvn test-compile", Argv: []string{mvnBin, "test-compile"}},
		{Name: "mvn test", Argv: []string{mvnBin, "test"}},
	}
}

// Runner executes a fixed stage sequence against a working directory.
type Runner struct {
	stages       []Stage
	stageTimeout time.Duration
}

// New creates a runner. stageTimeout of zero disables the per-stage
// deadline.
func New(stages []Stage, stageTimeout time.Duration) *Runner {
	return &Runner{stages: stages, stageTimeout: stageTimeout}
}

// Run executes the stages in order with the working directory set to
// workDir, short-circuiting after the first failure: once a stage
// fails, later stages are recorded as skipped failures and never
// invoked.
//
// A stage exiting non-zero is a graded outcome, not an error. Only an
// inability to invoke the tool at all (missing executable, permission)
// is returned as an error.
func (r *Runner) Run(ctx context.Context, workDir string, obs Observer) ([]StageResult, error) {
	results := make([]StageResult, 0, len(r.stages))
	failed := false
	for _, stage := range r.stages {
		if failed {
			res := StageResult{Name: stage.Name, Skipped: true}
			if obs != nil {
				obs.FinishStage(res)
			}
			results = append(results, res)
			continue
		}
		if obs != nil {
			obs.StartStage(stage.Name)
		}
		res, err := r.runStage(ctx, stage, workDir)
		if err != nil {
			return nil, err
		}
		if obs != nil {
			obs.FinishStage(res)
		}
		if !res.Ok {
			failed = true
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, workDir string) (StageResult, error) {
	if len(stage.Argv) == 0 {
		return StageResult{}, fmt.Errorf("stage %s has an empty command", stage.Name)
	}

	runCtx := ctx
	if r.stageTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.stageTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, stage.Argv[0], stage.Argv[1:]...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return StageResult{Name: stage.Name, Ok: true}, nil
	}

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) && !timedOut {
		return StageResult{}, fmt.Errorf("failed to invoke %s: %w", stage.Name, err)
	}

	output := stdout.String() + stderr.String()
	if timedOut {
		output += fmt.Sprintf("\nstage timed out after %s", r.stageTimeout)
	}
	return StageResult{
		Name:           stage.Name,
		CombinedOutput: output,
	}, nil
}
