package plan

import (
	"bytes"
	"fmt"
	"strings"
)

// NormalizeTask trims surrounding whitespace and rejects embedded line breaks.
func NormalizeTask(text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidTask, text)
	}
	return strings.TrimSpace(text), nil
}

// Encode renders tasks one per line, each newline-terminated.
func Encode(tasks []string) []byte {
	var buf bytes.Buffer
	for _, task := range tasks {
		buf.WriteString(task)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Decode parses file contents into tasks. Every line, blank or not,
// is a task; surrounding whitespace is stripped.
func Decode(data []byte) []string {
	content := string(data)
	content = strings.TrimSuffix(content, "\n")
	if content == "" && len(data) == 0 {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	tasks := make([]string, 0, len(lines))
	for _, line := range lines {
		tasks = append(tasks, strings.TrimSpace(line))
	}
	return tasks
}
