// # internal/engine/resolver/catalog.go
package resolver

import (
	"sort"
	"strings"
	"sync"
)

const (
	JupiterAssertions = "org.junit.jupiter.api.Assertions"
	JUnit4Assert      = "org.junit.Assert"
	AssertJAssertions = "org.assertj.core.api.Assertions"
	HamcrestAssert    = "org.hamcrest.MatcherAssert"
	LegacyTestCase    = "junit.framework.TestCase"
	LegacyAssert      = "junit.framework.Assert"
)

// TypeInfo describes the static members of a library type. Complete means
// Members lists every static method, so absence of a name is meaningful.
type TypeInfo struct {
	Name     string
	Members  map[string]bool
	Complete bool
}

// Catalog is the set of library types the resolver knows about. Source files
// are resolved without a classpath, so wildcard imports and inherited methods
// are only understood for types listed here.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*TypeInfo
}

func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*TypeInfo)}
}

var legacyAssertMembers = []string{
	"assertEquals", "assertFalse", "assertNotNull", "assertNotSame", "assertNull",
	"assertSame", "assertTrue", "fail", "failNotEquals", "failNotSame", "failSame",
	"format",
}

// DefaultCatalog returns the JUnit, AssertJ and Hamcrest entry points.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register(JupiterAssertions, []string{
		"assertAll", "assertArrayEquals", "assertDoesNotThrow", "assertEquals",
		"assertFalse", "assertInstanceOf", "assertIterableEquals", "assertLinesMatch",
		"assertNotEquals", "assertNotNull", "assertNotSame", "assertNull", "assertSame",
		"assertThrows", "assertThrowsExactly", "assertTimeout", "assertTimeoutPreemptively",
		"assertTrue", "fail",
	}, true)
	c.Register(JUnit4Assert, []string{
		"assertArrayEquals", "assertEquals", "assertFalse", "assertNotEquals",
		"assertNotNull", "assertNotSame", "assertNull", "assertSame", "assertThat",
		"assertThrows", "assertTrue", "fail",
	}, true)
	c.Register(AssertJAssertions, []string{
		"assertThat", "assertThatCode", "assertThatExceptionOfType", "assertThatIllegalArgumentException",
		"assertThatIllegalStateException", "assertThatIOException", "assertThatNullPointerException",
		"assertThatNoException", "assertThatObject", "assertThatThrownBy", "atIndex", "catchThrowable",
		"contentOf", "entry", "fail", "filter", "within",
	}, false)
	c.Register(HamcrestAssert, []string{"assertThat"}, true)
	c.Register(LegacyTestCase, legacyAssertMembers, false)
	c.Register(LegacyAssert, legacyAssertMembers, true)
	return c
}

// Register adds members to name, creating the entry when needed. A type once
// marked complete stays complete.
func (c *Catalog) Register(name string, members []string, complete bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.types[name]
	if !ok {
		info = &TypeInfo{Name: name, Members: make(map[string]bool, len(members))}
		c.types[name] = info
	}
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			info.Members[m] = true
		}
	}
	info.Complete = info.Complete || complete
}

func (c *Catalog) Lookup(name string) (*TypeInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.types[name]
	return info, ok
}

// Declares reports whether owner is known to have a static member named member.
func (c *Catalog) Declares(owner, member string) bool {
	info, ok := c.Lookup(owner)
	return ok && info.Members[member]
}

func (c *Catalog) IsComplete(owner string) bool {
	info, ok := c.Lookup(owner)
	return ok && info.Complete
}

// Members returns the sorted member names of owner.
func (c *Catalog) Members(owner string) []string {
	info, ok := c.Lookup(owner)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(info.Members))
	for m := range info.Members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// TypeInPackage returns pkg.simple when the catalog knows that type.
func (c *Catalog) TypeInPackage(pkg, simple string) (string, bool) {
	name := pkg + "." + simple
	_, ok := c.Lookup(name)
	return name, ok
}

func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.types))
	for name := range c.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
