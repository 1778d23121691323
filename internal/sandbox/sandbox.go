package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/programme-lv/prompteval/internal/extract"
)

// ErrInvalidTestCase marks a structurally broken test case, i.e. an
// upstream extraction bug rather than a build failure.
var ErrInvalidTestCase = errors.New("malformed test case")

// ErrUnsafePath marks a test-case filename that would escape the
// sandbox root.
var ErrUnsafePath = errors.New("test case filename escapes the sandbox")

// Sandbox is an isolated, disposable working copy of a prototype
// project. One grading run owns one sandbox; sandboxes are never
// reused.
type Sandbox struct {
	path   string
	retain bool
}

// New creates a uniquely named temp directory and deep-copies the full
// contents of prototypeDir into it.
func New(prototypeDir string) (*Sandbox, error) {
	dir, err := os.MkdirTemp("", "prompteval-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox directory: %w", err)
	}
	if err := CopyTree(prototypeDir, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to copy prototype %s: %w", prototypeDir, err)
	}
	return &Sandbox{path: dir}, nil
}

func (s *Sandbox) Path() string {
	return s.path
}

// Retain marks the sandbox to be kept on Close so a failing run can be
// inspected afterwards.
func (s *Sandbox) Retain() {
	s.retain = true
}

func (s *Sandbox) Retained() bool {
	return s.retain
}

// Close removes the sandbox directory unless it was retained.
func (s *Sandbox) Close() error {
	if s.retain {
		return nil
	}
	return os.RemoveAll(s.path)
}

// WriteTestCases writes each test case to <sandbox>/<filename>,
// creating missing intermediate directories and silently overwriting
// files the prototype already ships. Filenames must stay inside the
// sandbox root; the extractor takes them verbatim from LLM output.
func (s *Sandbox) WriteTestCases(cases []extract.TestCase) error {
	for _, tc := range cases {
		if tc.Filename == "" {
			return fmt.Errorf("%w: empty filename", ErrInvalidTestCase)
		}
		if !filepath.IsLocal(tc.Filename) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, tc.Filename)
		}
		dst := filepath.Join(s.path, tc.Filename)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", tc.Filename, err)
		}
		if err := os.WriteFile(dst, []byte(tc.Code), 0644); err != nil {
			return fmt.Errorf("failed to write test case %s: %w", tc.Filename, err)
		}
	}
	return nil
}
