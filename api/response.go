package api

// GradingResult is the structure consumed by the external evaluation
// framework. The top-level result mirrors the final pipeline stage;
// componentResults holds one sub-result per stage in stage order.
type GradingResult struct {
	Pass             bool            `json:"pass"`
	Score            float64         `json:"score"`
	Reason           string          `json:"reason"`
	ComponentResults []GradingResult `json:"componentResults,omitempty"`
}
