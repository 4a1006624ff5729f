// # internal/ui/report/formats/sarif.go
package formats

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"junitmig/internal/core/errors"
	"junitmig/internal/core/ports"
	"junitmig/internal/engine/parser"
	"junitmig/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnitError = "unit-error"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a run. Rewrites are
// reported under their rule ID, diagnostics under their error code and
// failed units under "unit-error". All file URIs are made relative to
// projectRoot.
func GenerateSARIF(projectRoot string, rules []ports.RuleInfo, res ports.RunResult) ([]byte, error) {
	descriptions := make(map[string]string, len(rules))
	for _, r := range rules {
		descriptions[r.ID] = r.Description
	}

	used := make(map[string]sarifRule)
	results := make([]sarifResult, 0)

	changeLevel := "note"
	if !res.Mode.Writes() {
		changeLevel = "warning"
	}

	for _, file := range res.Files {
		for _, c := range file.Changes {
			if _, ok := used[c.Rule]; !ok {
				used[c.Rule] = sarifRule{
					ID:               c.Rule,
					Name:             c.Rule,
					ShortDescription: sarifMessage{Text: descriptions[c.Rule]},
					DefaultConfig:    sarifRuleDefaultConfig{Level: changeLevel},
				}
			}
			msg := fmt.Sprintf("Rewrote `%s` to `%s`", c.Before, c.After)
			if !res.Mode.Writes() {
				msg = fmt.Sprintf("`%s` can be rewritten to `%s`", c.Before, c.After)
			}
			results = append(results, sarifResult{
				RuleID:    c.Rule,
				Level:     changeLevel,
				Message:   sarifMessage{Text: msg},
				Locations: []sarifLocation{fileLocation(projectRoot, file.Path, c.Location)},
			})
		}

		for _, d := range file.Warnings {
			id := string(d.Code)
			if _, ok := used[id]; !ok {
				used[id] = sarifRule{
					ID:               id,
					Name:             id,
					ShortDescription: sarifMessage{Text: diagnosticDescription(d.Code)},
					DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
				}
			}
			results = append(results, sarifResult{
				RuleID:    id,
				Level:     "warning",
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{fileLocation(projectRoot, file.Path, d.Location)},
			})
		}

		if file.Err != nil {
			if _, ok := used[ruleIDUnitError]; !ok {
				used[ruleIDUnitError] = sarifRule{
					ID:               ruleIDUnitError,
					Name:             "UnitError",
					ShortDescription: sarifMessage{Text: "The file could not be processed and was left unchanged."},
					DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
				}
			}
			results = append(results, sarifResult{
				RuleID:    ruleIDUnitError,
				Level:     "error",
				Message:   sarifMessage{Text: file.Err.Error()},
				Locations: []sarifLocation{fileLocation(projectRoot, file.Path, parser.Location{})},
			})
		}
	}

	ids := make([]string, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sarifRules := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		sarifRules = append(sarifRules, used[id])
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "junitmig",
						Version: version.Version,
						Rules:   sarifRules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

func diagnosticDescription(code errors.ErrorCode) string {
	switch code {
	case errors.CodeAmbiguousImport:
		return "A static import could not be added without shadowing another binding; the call was qualified instead."
	case errors.CodeUnresolvedSymbol:
		return "The owner of a call could not be resolved."
	case errors.CodeMalformedArgument:
		return "A call had an argument shape no overload accepts."
	default:
		return "Diagnostic reported while rewriting."
	}
}

func fileLocation(projectRoot, path string, loc parser.Location) sarifLocation {
	out := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativeURI(projectRoot, path),
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if loc.Line > 0 {
		out.PhysicalLocation.Region = &sarifRegion{
			StartLine:   loc.Line,
			StartColumn: loc.Column,
		}
	}
	return out
}

// relativeURI converts a file path to a forward-slash URI relative to
// projectRoot. Relative paths are resolved against the working directory first.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" {
		abs := filePath
		if !filepath.IsAbs(abs) {
			if a, err := filepath.Abs(abs); err == nil {
				abs = a
			}
		}
		if rel, err := filepath.Rel(projectRoot, abs); err == nil && !filepath.IsAbs(rel) && rel != ".." && !startsWithParent(rel) {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && (rel[2] == '/' || rel[2] == filepath.Separator)
}
