package api

import "time"

// MsgType is a message type for streaming responses
type MsgType string

// Streaming message type constants
const (
	StartEvalMsg   MsgType = "started_evaluation"
	StartStageMsg  MsgType = "started_stage"
	FinishStageMsg MsgType = "finished_stage"
	FinishEvalMsg  MsgType = "finished_evaluation"
)

// Stage output size constraints for streaming
const (
	MaxStageOutputHeight = 40
	MaxStageOutputWidth  = 80
)

// Header is the common header for all streaming response messages
type Header struct {
	EvalUuid string  `json:"eval_uuid"`
	MsgType  MsgType `json:"msg_type"`
}

// StartEval message sent when a grading run begins
type StartEval struct {
	Header
	SystemInfo  string `json:"system_info"`
	StartedTime string `json:"started_time"`
}

// StartStage message sent when a pipeline stage begins
type StartStage struct {
	Header
	Stage string `json:"stage"`
}

// FinishStage message sent when a pipeline stage completes or is skipped
type FinishStage struct {
	Header
	Stage   string  `json:"stage"`
	Ok      bool    `json:"ok"`
	Skipped bool    `json:"skipped"`
	Output  *string `json:"output"`
}

// FinishEval message sent when the grading run completes
type FinishEval struct {
	Header
	ErrorMessage  *string        `json:"error_message"`
	InternalError bool           `json:"internal_error"`
	Result        *GradingResult `json:"result"`
}

// Helper function to create a header
func NewHeader(evalUuid string, msgType MsgType) Header {
	return Header{
		EvalUuid: evalUuid,
		MsgType:  msgType,
	}
}

func NewStartEval(evalUuid, systemInfo string) StartEval {
	return StartEval{
		Header:      NewHeader(evalUuid, StartEvalMsg),
		SystemInfo:  systemInfo,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartStage(evalUuid, stage string) StartStage {
	return StartStage{
		Header: NewHeader(evalUuid, StartStageMsg),
		Stage:  stage,
	}
}

func NewFinishStage(evalUuid, stage string, ok, skipped bool, output *string) FinishStage {
	return FinishStage{
		Header:  NewHeader(evalUuid, FinishStageMsg),
		Stage:   stage,
		Ok:      ok,
		Skipped: skipped,
		Output:  output,
	}
}

func NewFinishEval(evalUuid string, errorMessage *string, internalError bool, result *GradingResult) FinishEval {
	return FinishEval{
		Header:        NewHeader(evalUuid, FinishEvalMsg),
		ErrorMessage:  errorMessage,
		InternalError: internalError,
		Result:        result,
	}
}
