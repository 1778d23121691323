package behave

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/programme-lv/prompteval/api"
)

// SpecExpect describes the expected grading outcome of a scenario.
// Score is optional; nil means only the pass flag is checked.
type SpecExpect struct {
	Pass  bool     `toml:"pass"`
	Score *float64 `toml:"score"`
}

// SpecScenario is one [[scenarios]] entry in a behaviour file. The LLM
// output is either inline or referenced as a file relative to the
// behaviour file.
type SpecScenario struct {
	Description  string     `toml:"description"`
	PrototypeDir string     `toml:"prototype_dir"`
	LlmOutput    string     `toml:"llm_output"`
	OutputFile   string     `toml:"output_file"`
	Expect       SpecExpect `toml:"expect"`
}

type specRoot struct {
	Scenarios []SpecScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML.
type Case struct {
	Name    string
	Request api.EvalReq
	Expect  SpecExpect
}

// Parse reads a behaviour TOML file and converts it to runnable cases.
// Relative prototype and output paths are resolved against the
// behaviour file's directory.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	baseDir := filepath.Dir(path)

	cases := make([]Case, 0, len(root.Scenarios))
	for _, sc := range root.Scenarios {
		if sc.PrototypeDir == "" {
			return nil, fmt.Errorf("scenario %q is missing prototype_dir", sc.Description)
		}
		protoDir := sc.PrototypeDir
		if !filepath.IsAbs(protoDir) {
			protoDir = filepath.Join(baseDir, protoDir)
		}

		output := sc.LlmOutput
		if output == "" && sc.OutputFile != "" {
			outPath := sc.OutputFile
			if !filepath.IsAbs(outPath) {
				outPath = filepath.Join(baseDir, outPath)
			}
			raw, err := os.ReadFile(outPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read output file for scenario %q: %w", sc.Description, err)
			}
			output = string(raw)
		}

		dir := protoDir
		cases = append(cases, Case{
			Name: sc.Description,
			Request: api.EvalReq{
				EvalUuid:  uuid.NewString(),
				LlmOutput: output,
				Prototype: api.Prototype{Dir: &dir},
			},
			Expect: sc.Expect,
		})
	}

	return cases, nil
}
