package report

import (
	"fmt"
	"io"

	"junitmig/internal/core/ports"
	"junitmig/internal/data/state"
	"junitmig/internal/shared/util"
	"junitmig/internal/ui/report/formats"
)

func RenderSummary(res ports.RunResult, verbose bool) string {
	return formats.RenderSummary(res, verbose)
}

func RenderRunsTSV(runs []state.Run) []byte {
	return formats.RenderRunsTSV(runs)
}

// WriteDiffs writes a unified diff for every changed file in res.
func WriteDiffs(w io.Writer, res ports.RunResult) error {
	for _, file := range res.Files {
		if !file.Changed {
			continue
		}
		diff, err := formats.UnifiedDiff(file.Path, file.Before, file.After)
		if err != nil {
			return fmt.Errorf("diff %s: %w", file.Path, err)
		}
		if _, err := io.WriteString(w, diff); err != nil {
			return err
		}
	}
	return nil
}

// WriteSARIF renders res as SARIF and writes it to path, creating parent directories.
func WriteSARIF(path, projectRoot string, rules []ports.RuleInfo, res ports.RunResult) error {
	data, err := formats.GenerateSARIF(projectRoot, rules, res)
	if err != nil {
		return fmt.Errorf("generate sarif: %w", err)
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return fmt.Errorf("write sarif %q: %w", path, err)
	}
	return nil
}
