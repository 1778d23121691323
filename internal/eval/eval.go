package eval

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/extract"
	"github.com/programme-lv/prompteval/internal/grade"
	"github.com/programme-lv/prompteval/internal/pipeline"
	"github.com/programme-lv/prompteval/internal/sandbox"
)

// ProtoStore resolves sha256-addressed prototype archives to extracted
// directories.
type ProtoStore interface {
	Schedule(sha256 string, url string) error
	Await(sha256 string) (string, error)
}

// Options configures an Evaluator.
type Options struct {
	// Stages overrides the pipeline; nil means the default Maven
	// sequence.
	Stages []pipeline.Stage
	// StageTimeout is the default per-stage deadline; zero disables it.
	StageTimeout time.Duration
	// RetainOnFailure keeps the sandbox of any non-passing run.
	RetainOnFailure bool
}

// Evaluator grades one EvalReq at a time: extract test cases,
// materialize a sandbox, run the pipeline, aggregate the grade.
type Evaluator struct {
	protos          ProtoStore
	stages          []pipeline.Stage
	stageTimeout    time.Duration
	retainOnFailure bool
	systemInfo      string
}

// NewEvaluator creates an evaluator. protos may be nil when every
// request carries a local prototype directory.
func NewEvaluator(protos ProtoStore, opts Options) *Evaluator {
	stages := opts.Stages
	if stages == nil {
		stages = pipeline.DefaultStages("")
	}
	return &Evaluator{
		protos:          protos,
		stages:          stages,
		stageTimeout:    opts.StageTimeout,
		retainOnFailure: opts.RetainOnFailure,
		systemInfo:      getSystemInfo(stages),
	}
}

func getSystemInfo(stages []pipeline.Stage) string {
	if len(stages) == 0 || len(stages[0].Argv) == 0 {
		return ""
	}
	out, err := exec.Command(stages[0].Argv[0], "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Evaluate runs one grading run end to end, streaming progress to
// gath. The returned error is non-nil only for structural failures
// (unreadable prototype, malformed test case, missing build tool); a
// failing build is reported through the grading result alone.
func (e *Evaluator) Evaluate(ctx context.Context, req api.EvalReq, gath EvalResGatherer) (api.GradingResult, error) {
	gath.StartEvaluation(e.systemInfo)

	var protoDir string
	var cases []extract.TestCase
	resMu := sync.Mutex{}

	errs, _ := errgroup.WithContext(ctx)

	errs.Go(func() error {
		dir, err := e.resolvePrototype(req.Prototype)
		if err != nil {
			return fmt.Errorf("failed to resolve prototype: %w", err)
		}
		resMu.Lock()
		protoDir = dir
		resMu.Unlock()
		return nil
	})

	errs.Go(func() error {
		parsed := extract.TestCases(req.LlmOutput)
		resMu.Lock()
		cases = parsed
		resMu.Unlock()
		return nil
	})

	if err := errs.Wait(); err != nil {
		gath.FinishEvalWithInternalError(err.Error())
		return api.GradingResult{}, err
	}

	sb, err := sandbox.New(protoDir)
	if err != nil {
		err = fmt.Errorf("failed to materialize sandbox: %w", err)
		gath.FinishEvalWithInternalError(err.Error())
		return api.GradingResult{}, err
	}
	defer func() {
		_ = sb.Close()
	}()

	if err := sb.WriteTestCases(cases); err != nil {
		if e.retainOnFailure {
			sb.Retain()
		}
		err = fmt.Errorf("failed to write test cases: %w", err)
		gath.FinishEvalWithInternalError(err.Error())
		return api.GradingResult{}, err
	}

	stageTimeout := e.stageTimeout
	if req.StageTimeoutSec > 0 {
		stageTimeout = time.Duration(req.StageTimeoutSec) * time.Second
	}
	runner := pipeline.New(e.stages, stageTimeout)

	stageResults, err := runner.Run(ctx, sb.Path(), stageObserver{gath})
	if err != nil {
		if e.retainOnFailure {
			sb.Retain()
		}
		err = fmt.Errorf("failed to run pipeline: %w", err)
		gath.FinishEvalWithInternalError(err.Error())
		return api.GradingResult{}, err
	}

	result := grade.Grade(stageResults, sb.Path())
	if req.RetainSandbox || (e.retainOnFailure && !result.Pass) {
		sb.Retain()
	}

	gath.FinishEvaluation(result)
	return result, nil
}

func (e *Evaluator) resolvePrototype(p api.Prototype) (string, error) {
	if p.Dir != nil {
		info, err := os.Stat(*p.Dir)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("prototype path %s is not a directory", *p.Dir)
		}
		return *p.Dir, nil
	}
	if p.Sha256 == nil {
		return "", fmt.Errorf("prototype has neither a directory nor an archive sha256")
	}
	if e.protos == nil {
		return "", fmt.Errorf("no prototype store configured")
	}
	url := ""
	if p.Url != nil {
		url = *p.Url
	}
	if err := e.protos.Schedule(*p.Sha256, url); err != nil {
		return "", err
	}
	return e.protos.Await(*p.Sha256)
}

// stageObserver forwards pipeline stage events to the gatherer.
type stageObserver struct {
	gath EvalResGatherer
}

func (o stageObserver) StartStage(name string) {
	o.gath.StartStage(name)
}

func (o stageObserver) FinishStage(result pipeline.StageResult) {
	o.gath.FinishStage(result)
}
