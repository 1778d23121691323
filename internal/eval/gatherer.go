package eval

import (
	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

// EvalResGatherer receives progress events for a single grading run.
// Graded build failures flow through FinishStage / FinishEvaluation;
// FinishEvalWithInternalError is reserved for structural errors that
// must not be mistaken for a low score.
type EvalResGatherer interface {
	StartEvaluation(systemInfo string)

	StartStage(name string)
	FinishStage(result pipeline.StageResult)

	FinishEvalWithInternalError(msg string)
	FinishEvaluation(result api.GradingResult)
}
