package watcher

import (
	"path/filepath"
	"testing"
)

func TestFilter(t *testing.T) {
	f, err := NewFilter([]string{"build", ".git"}, []string{"**/legacy/**", "*Generated.java"}, []string{".JAVA"})
	if err != nil {
		t.Fatal(err)
	}
	root := filepath.FromSlash("/repo")

	cases := []struct {
		name string
		path string
		skip bool
	}{
		{name: "PlainSource", path: "/repo/src/test/java/FooTest.java", skip: false},
		{name: "UpperCaseExtension", path: "/repo/src/Foo.JAVA", skip: false},
		{name: "OtherExtension", path: "/repo/src/Foo.kt", skip: true},
		{name: "BaseNamePattern", path: "/repo/src/FooGenerated.java", skip: true},
		{name: "RelativePattern", path: "/repo/src/legacy/OldTest.java", skip: true},
		{name: "ExcludedDirSegment", path: "/repo/build/gen/FooTest.java", skip: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.SkipFile(root, filepath.FromSlash(tc.path)); got != tc.skip {
				t.Fatalf("SkipFile(%s) = %v, want %v", tc.path, got, tc.skip)
			}
		})
	}

	if !f.SkipDir(filepath.FromSlash("/repo/build")) {
		t.Error("expected build to be skipped")
	}
	if f.SkipDir(filepath.FromSlash("/repo/src")) {
		t.Error("expected src to be walked")
	}
}

func TestFilter_InvalidPattern(t *testing.T) {
	if _, err := NewFilter(nil, []string{"[unterminated"}, nil); err == nil {
		t.Fatal("expected error for invalid glob")
	}
}
