package prompt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format renders every regular file under root as a delimited context
// block and appends instruction as the final line. WalkDir visits
// entries in lexical order, so output is byte-identical across runs on
// an unchanged tree.
//
// Any unreadable or non-UTF-8 file aborts the whole prompt; partial
// context is worse than no context.
func Format(root string, instruction string) (string, error) {
	blocks := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read context file %s: %w", path, err)
		}
		if !utf8.Valid(content) {
			return fmt.Errorf("context file %s is not valid UTF-8", path)
		}
		blocks = append(blocks, FormatContextFile(d.Name(), string(content)))
		return nil
	})
	if err != nil {
		return "", err
	}
	blocks = append(blocks, instruction)
	return strings.Join(blocks, "\n"), nil
}

// FormatContextFile renders a single file as a context block. The
// marker carries the bare filename, not the full path.
func FormatContextFile(filename string, content string) string {
	return fmt.Sprintf("<CONTEXT_FILE FILE_NAME=%s>\n%s\n</CONTEXT_FILE>", filename, content)
}

// AppendLog appends the rendered prompt to a side file for debugging.
func AppendLog(path string, rendered string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(rendered + "\n")
	return err
}
