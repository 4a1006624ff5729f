package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"junitmig/internal/core/app"
	"junitmig/internal/core/config"
	"junitmig/internal/core/ports"
	"junitmig/internal/data/state"
	"junitmig/internal/engine/rules"
	"junitmig/internal/ui/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var project = map[string]struct{ before, after string }{
	"src/test/java/p/JupiterTest.java": {
		before: `package p;

import static org.junit.jupiter.api.Assertions.assertNull;

class JupiterTest {
    void t() {
        assertNull(lookup(), "should be null");
        assertNull(lookup(), () -> "lazy");
    }
}
`,
		after: `package p;

import static org.assertj.core.api.Assertions.assertThat;

class JupiterTest {
    void t() {
        assertThat(lookup()).as("should be null").isNull();
        assertThat(lookup()).withFailMessage(() -> "lazy").isNull();
    }
}
`,
	},
	"src/test/java/p/LegacyTest.java": {
		before: `package p;

import static org.junit.Assert.assertNull;

class LegacyTest {
    void t() {
        assertNull("should be null", lookup());
    }
}
`,
		after: `package p;

import static org.assertj.core.api.Assertions.assertThat;

class LegacyTest {
    void t() {
        assertThat(lookup()).as("should be null").isNull();
    }
}
`,
	},
	"src/test/java/p/MatcherTest.java": {
		before: `package p;

import static org.hamcrest.Matchers.is;
import static org.junit.Assert.assertThat;

class MatcherTest {
    void t() {
        assertThat(1, is(1));
    }
}
`,
		after: `package p;

import static org.hamcrest.Matchers.is;
import static org.hamcrest.MatcherAssert.assertThat;

class MatcherTest {
    void t() {
        assertThat(1, is(1));
    }
}
`,
	},
	"src/main/java/p/Service.java": {
		before: `package p;

class Service {
    Object lookup() {
        return null;
    }
}
`,
	},
}

func createProject(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>\n"), 0o644))
	for rel, file := range project {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(file.before), 0o644))
	}
}

func TestFullPipelineIntegration(t *testing.T) {
	root := t.TempDir()
	createProject(t, root)

	cfg := config.DefaultConfig()
	cfg.Scan.Paths = []string{root}
	cfg.Rules.Enabled = []string{rules.AssertNullRuleID, rules.HamcrestRuleID}
	cfg.State.Enabled = true
	require.NoError(t, config.Validate(cfg))

	paths, err := config.ResolvePaths(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), paths.ProjectRoot)

	store, err := state.Open(paths.StatePath, time.Second)
	require.NoError(t, err)

	appInstance, err := app.New(cfg, app.WithStateStore(store))
	require.NoError(t, err)
	defer appInstance.Close()

	ctx := context.Background()

	// Check reports every pending rewrite and leaves sources alone.
	checked, err := appInstance.Run(ctx, ports.RunRequest{Mode: ports.ModeCheck})
	require.NoError(t, err)
	assert.Equal(t, 4, checked.FilesScanned)
	assert.Equal(t, 3, checked.FilesChanged)
	assert.Equal(t, 4, checked.Rewrites)
	assert.Zero(t, checked.Errors)

	sarifPath := filepath.Join(root, "out", "junitmig.sarif")
	require.NoError(t, report.WriteSARIF(sarifPath, paths.ProjectRoot, appInstance.Rules(), checked))
	var doc struct {
		Runs []struct {
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	data, err := os.ReadFile(sarifPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Runs, 1)
	require.Len(t, doc.Runs[0].Results, 4)
	for _, r := range doc.Runs[0].Results {
		assert.Equal(t, "warning", r.Level)
		require.NotEmpty(t, r.Locations)
		assert.NotContains(t, r.Locations[0].PhysicalLocation.ArtifactLocation.URI, root)
	}

	for rel, file := range project {
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, file.before, string(got), rel)
	}

	// Apply writes the migration.
	applied, err := appInstance.Run(ctx, ports.RunRequest{Mode: ports.ModeApply})
	require.NoError(t, err)
	assert.Equal(t, 3, applied.FilesChanged)

	for rel, file := range project {
		want := file.after
		if want == "" {
			want = file.before
		}
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), rel)
	}

	// A second apply finds nothing new and skips every file via the ledger.
	again, err := appInstance.Run(ctx, ports.RunRequest{Mode: ports.ModeApply})
	require.NoError(t, err)
	assert.Zero(t, again.FilesChanged)
	assert.Equal(t, 4, again.FilesSkipped)

	// Forcing a reprocess still reaches a fixed point.
	forced, err := appInstance.Run(ctx, ports.RunRequest{Mode: ports.ModeApply, NoCache: true})
	require.NoError(t, err)
	assert.Zero(t, forced.FilesChanged)
	assert.Equal(t, 4, forced.FilesScanned)

	runs, err := appInstance.History(10)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, forced.ID, runs[0].ID)
	assert.Equal(t, "check", runs[3].Mode)
	assert.Equal(t, 3, runs[2].FilesChanged)
}
