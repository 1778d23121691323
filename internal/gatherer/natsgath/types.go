package natsgath

import (
	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

// publisher is the slice of *nats.Conn the gatherer needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

// natsGatherer streams grading progress to a NATS inbox subject.
type natsGatherer struct {
	nc       publisher
	inbox    string
	evalUuid string
}

func (g *natsGatherer) StartEvaluation(systemInfo string) {
	g.send(api.NewStartEval(g.evalUuid, systemInfo))
}

func (g *natsGatherer) StartStage(name string) {
	g.send(api.NewStartStage(g.evalUuid, name))
}

func (g *natsGatherer) FinishStage(result pipeline.StageResult) {
	var output *string
	if result.CombinedOutput != "" {
		trimmed := trimStrToRect(result.CombinedOutput, api.MaxStageOutputHeight, api.MaxStageOutputWidth)
		output = &trimmed
	}
	g.send(api.NewFinishStage(g.evalUuid, result.Name, result.Ok, result.Skipped, output))
}

func (g *natsGatherer) FinishEvalWithInternalError(msg string) {
	g.send(api.NewFinishEval(g.evalUuid, &msg, true, nil))
}

func (g *natsGatherer) FinishEvaluation(result api.GradingResult) {
	g.send(api.NewFinishEval(g.evalUuid, nil, false, &result))
}
