package formats

import (
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// UnifiedDiff renders the change of one file as a unified diff with a/ and b/
// prefixed headers. It returns "" when before and after are equal.
func UnifiedDiff(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	name := filepath.ToSlash(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	})
}
