package plan

import (
	"fmt"
	"strings"
)

const (
	// DefaultBase is the base filename used when none is configured.
	DefaultBase = "tasks"

	fileExt    = ".txt"
	tempPrefix = "temp"
)

// FileName returns the storage filename for the plan of d.
// A zero date maps to the temporary buffer file.
func FileName(d Date, base string) string {
	if d.IsZero() {
		return fmt.Sprintf("%s_%s%s", tempPrefix, base, fileExt)
	}
	return fmt.Sprintf("%s_%s%s", d.Key(), base, fileExt)
}

// FileSuffix returns the suffix shared by every plan file for base.
func FileSuffix(base string) string {
	return "_" + base + fileExt
}

// DateFromFileName derives the date encoded in a plan filename.
// It returns false if name is not a dated plan file for base.
func DateFromFileName(name, base string) (Date, bool) {
	key, ok := strings.CutSuffix(name, FileSuffix(base))
	if !ok || key == "" {
		return "", false
	}
	d, err := ParseDate(strings.ReplaceAll(key, "_", "/"))
	if err != nil {
		return "", false
	}
	return d, true
}
