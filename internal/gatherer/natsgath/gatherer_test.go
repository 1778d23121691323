package natsgath

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

type capturingPublisher struct {
	subjects []string
	payloads [][]byte
}

func (p *capturingPublisher) Publish(subj string, data []byte) error {
	p.subjects = append(p.subjects, subj)
	p.payloads = append(p.payloads, data)
	return nil
}

func TestGathererPublishesTaggedEvents(t *testing.T) {
	pub := &capturingPublisher{}
	g := &natsGatherer{nc: pub, inbox: "eval.results", evalUuid: "uuid-1"}

	g.StartEvaluation("Apache Maven 3.9.6")
	g.StartStage("mvn install")
	g.FinishStage(pipeline.StageResult{Name: "mvn install", Ok: true})
	g.FinishEvaluation(api.GradingResult{Pass: true, Score: 1.0})

	require.Len(t, pub.payloads, 4)
	for _, subj := range pub.subjects {
		assert.Equal(t, "eval.results", subj)
	}

	wantTypes := []api.MsgType{
		api.StartEvalMsg, api.StartStageMsg, api.FinishStageMsg, api.FinishEvalMsg,
	}
	for i, payload := range pub.payloads {
		var hdr api.Header
		require.NoError(t, json.Unmarshal(payload, &hdr))
		assert.Equal(t, "uuid-1", hdr.EvalUuid)
		assert.Equal(t, wantTypes[i], hdr.MsgType)
	}
}

func TestGathererTrimsStageOutput(t *testing.T) {
	pub := &capturingPublisher{}
	g := &natsGatherer{nc: pub, inbox: "eval.results", evalUuid: "uuid-2"}

	g.FinishStage(pipeline.StageResult{
		Name:           "mvn test",
		CombinedOutput: strings.Repeat("line\n", api.MaxStageOutputHeight+10),
	})

	require.Len(t, pub.payloads, 1)
	var msg api.FinishStage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	require.NotNil(t, msg.Output)
	assert.Contains(t, *msg.Output, "[...]")
	assert.LessOrEqual(t, len(strings.Split(*msg.Output, "\n")), api.MaxStageOutputHeight+1)
}

func TestInternalErrorMessage(t *testing.T) {
	pub := &capturingPublisher{}
	g := &natsGatherer{nc: pub, inbox: "eval.results", evalUuid: "uuid-3"}

	g.FinishEvalWithInternalError("prototype archive unreachable")

	require.Len(t, pub.payloads, 1)
	var msg api.FinishEval
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.True(t, msg.InternalError)
	require.NotNil(t, msg.ErrorMessage)
	assert.Equal(t, "prototype archive unreachable", *msg.ErrorMessage)
	assert.Nil(t, msg.Result)
}
