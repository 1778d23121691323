package sqsgath

import (
	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

// sqsResQueueGatherer streams grading progress to an SQS response
// queue, one JSON message per event, tagged with the eval uuid.
type sqsResQueueGatherer struct {
	sqsClient sqsSender
	queueUrl  string
	evalUuid  string
}

func (s *sqsResQueueGatherer) StartEvaluation(systemInfo string) {
	s.send(api.NewStartEval(s.evalUuid, systemInfo))
}

func (s *sqsResQueueGatherer) StartStage(name string) {
	s.send(api.NewStartStage(s.evalUuid, name))
}

func (s *sqsResQueueGatherer) FinishStage(result pipeline.StageResult) {
	var output *string
	if result.CombinedOutput != "" {
		trimmed := trimStrToRect(result.CombinedOutput, api.MaxStageOutputHeight, api.MaxStageOutputWidth)
		output = &trimmed
	}
	s.send(api.NewFinishStage(s.evalUuid, result.Name, result.Ok, result.Skipped, output))
}

func (s *sqsResQueueGatherer) FinishEvalWithInternalError(msg string) {
	s.send(api.NewFinishEval(s.evalUuid, &msg, true, nil))
}

func (s *sqsResQueueGatherer) FinishEvaluation(result api.GradingResult) {
	trimmed := trimResultReasons(result)
	s.send(api.NewFinishEval(s.evalUuid, nil, false, &trimmed))
}

// trimResultReasons bounds component reasons, which embed captured
// build output, to the streaming size limits.
func trimResultReasons(result api.GradingResult) api.GradingResult {
	result.Reason = trimStrToRect(result.Reason, api.MaxStageOutputHeight, api.MaxStageOutputWidth)
	for i := range result.ComponentResults {
		result.ComponentResults[i] = trimResultReasons(result.ComponentResults[i])
	}
	return result
}
