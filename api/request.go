package api

// EvalReq is a request to grade LLM-generated test files against a
// prototype project.
type EvalReq struct {
	EvalUuid string `json:"eval_uuid"`

	// Raw LLM output containing zero or more
	// <TEST_FILE filename="...">...</TEST_FILE> blocks.
	LlmOutput string `json:"llm_output"`

	Prototype Prototype `json:"prototype"`

	// Seconds allowed per pipeline stage. Zero means the worker default.
	StageTimeoutSec int `json:"stage_timeout_sec"`

	// Keep the sandbox directory after grading for post-hoc inspection.
	RetainSandbox bool `json:"retain_sandbox"`

	ResSqsUrl string `json:"res_sqs_url"`
}

// Prototype locates the baseline project copied into each sandbox.
// Either Dir is set, or Sha256 references a tar.zst archive in the
// prototype store, with Url as the download source on a cache miss.
type Prototype struct {
	Dir *string `json:"dir"`

	Sha256 *string `json:"sha256"`
	Url    *string `json:"url"`
}
