package termgath

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

// TerminalGatherer prints grading progress to stdout for interactive
// one-shot runs.
type TerminalGatherer struct {
	StartedAt time.Time
}

func New() *TerminalGatherer { return &TerminalGatherer{StartedAt: time.Now()} }

func (t *TerminalGatherer) StartEvaluation(systemInfo string) {
	fmt.Println("== Evaluation started ==")
	if systemInfo != "" {
		fmt.Println(systemInfo)
	}
}

func (t *TerminalGatherer) StartStage(name string) {
	fmt.Printf("-- %s --\n", name)
}

func (t *TerminalGatherer) FinishStage(result pipeline.StageResult) {
	switch {
	case result.Skipped:
		color.Yellow("   %s skipped", result.Name)
	case result.Ok:
		color.Green("   %s ok", result.Name)
	default:
		color.Red("   %s failed", result.Name)
		if result.CombinedOutput != "" {
			fmt.Println(result.CombinedOutput)
		}
	}
}

func (t *TerminalGatherer) FinishEvalWithInternalError(msg string) {
	color.Red("== Internal error: %s ==", msg)
}

func (t *TerminalGatherer) FinishEvaluation(result api.GradingResult) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	verdict := color.GreenString("PASS")
	if !result.Pass {
		verdict = color.RedString("FAIL")
	}
	fmt.Printf("== %s score=%.3f in %s ==\n", verdict, result.Score, dur)
	fmt.Println(result.Reason)
}
