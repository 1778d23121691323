package grade

import (
	"fmt"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

// Grade converts stage outcomes into the composite grading result.
// The bottom-line pass mirrors the final stage (did the tests pass);
// score is the fraction of stages that succeeded, so a run that
// installed and compiled but failed its tests still scores 2/3.
func Grade(stages []pipeline.StageResult, sandboxPath string) api.GradingResult {
	passed := 0
	lastOk := false
	components := make([]api.GradingResult, 0, len(stages))
	for i, stage := range stages {
		if stage.Ok {
			passed++
		}
		if i == len(stages)-1 {
			lastOk = stage.Ok
		}
		components = append(components, stageGradingResult(stage))
	}

	score := 0.0
	if len(stages) > 0 {
		score = float64(passed) / float64(len(stages))
	}

	return api.GradingResult{
		Pass:             lastOk,
		Score:            score,
		Reason:           fmt.Sprintf("composite test metrics %s", sandboxPath),
		ComponentResults: components,
	}
}

func stageGradingResult(stage pipeline.StageResult) api.GradingResult {
	reason := stage.Name
	if !stage.Ok {
		if stage.Skipped {
			reason = stage.Name + " - skipped, earlier stage failed"
		} else {
			reason = stage.Name + " - " + stage.CombinedOutput
		}
	}
	return api.GradingResult{
		Pass:   stage.Ok,
		Score:  scoreBool(stage.Ok),
		Reason: reason,
	}
}

func scoreBool(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}
