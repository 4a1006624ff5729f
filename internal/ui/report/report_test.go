package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"junitmig/internal/core/ports"
)

func TestWriteDiffsAndSARIF(t *testing.T) {
	res := ports.RunResult{
		Mode: ports.ModeDiff,
		Files: []ports.FileOutcome{
			{Path: "A.java", Changed: true, Before: []byte("a\n"), After: []byte("b\n")},
			{Path: "B.java"},
		},
	}

	var buf bytes.Buffer
	if err := WriteDiffs(&buf, res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "-a\n+b\n") || strings.Contains(buf.String(), "B.java") {
		t.Errorf("unexpected diff output:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "reports", "junitmig.sarif")
	if err := WriteSARIF(path, "", nil, res); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("written SARIF is not valid JSON")
	}
}
