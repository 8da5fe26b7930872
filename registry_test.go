package hookstate

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger records formatted log lines for assertions.
type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) record(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *testLogger) Debug(format string, args ...interface{}) { l.record("DEBUG", format, args...) }
func (l *testLogger) Info(format string, args ...interface{})  { l.record("INFO", format, args...) }
func (l *testLogger) Warn(format string, args ...interface{})  { l.record("WARN", format, args...) }
func (l *testLogger) Error(format string, args ...interface{}) { l.record("ERROR", format, args...) }

func (l *testLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestResolveRootPath(t *testing.T) {
	r := New()

	store, err := r.Resolve(nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	again, err := r.Resolve(Path{})
	require.NoError(t, err)
	assert.Same(t, store, again, "the root path must always resolve to the same store")
}

func TestResolveAutoGrowsNestedPath(t *testing.T) {
	r := New()

	store, err := r.Resolve(Path{1, 2})
	require.NoError(t, err)
	require.NotNil(t, store)

	// Growing to child 1 creates children 0 and 1; growing to its child 2
	// creates three more nodes below it.
	stats := r.Stats()
	assert.Equal(t, 6, stats.Nodes)
	assert.Equal(t, 0, stats.Slots)

	again, err := r.Resolve(Path{1, 2})
	require.NoError(t, err)
	assert.Same(t, store, again)
	assert.Equal(t, 6, r.Stats().Nodes, "resolving an existing path must not grow the tree")
}

func TestResolveAutoGrowDisabled(t *testing.T) {
	r := New(WithAutoGrow(false))

	_, err := r.Resolve(nil)
	require.NoError(t, err, "the root always exists")

	_, err = r.Resolve(Path{0})
	assert.ErrorIs(t, err, ErrUnknownPath)
	assert.Equal(t, 1, r.Stats().Nodes)
}

func TestResolveNegativeIndex(t *testing.T) {
	r := New()

	_, err := r.Resolve(Path{-1})
	assert.ErrorIs(t, err, ErrUnknownPath)
}

func TestRegisterChild(t *testing.T) {
	r := New(WithAutoGrow(false))

	first, err := r.RegisterChild(nil)
	require.NoError(t, err)
	assert.Equal(t, Path{0}, first)

	second, err := r.RegisterChild(nil)
	require.NoError(t, err)
	assert.Equal(t, Path{1}, second)

	nested, err := r.RegisterChild(first)
	require.NoError(t, err)
	assert.Equal(t, Path{0, 0}, nested)

	_, err = r.Resolve(nested)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Stats().Nodes)
}

func TestRegisterChildUnknownParent(t *testing.T) {
	r := New(WithAutoGrow(false))

	_, err := r.RegisterChild(Path{5})
	assert.ErrorIs(t, err, ErrUnknownPath)
}

func TestPruneDropsSubtreeState(t *testing.T) {
	r := New()

	left := r.Bind(Path{0})
	_, _, err := UseState(left, "left state")
	require.NoError(t, err)

	right := r.Bind(Path{1})
	_, _, err = UseState(right, "right state")
	require.NoError(t, err)

	require.NoError(t, r.Prune(Path{0}))

	// The pruned position reinitializes from scratch.
	replay := r.Bind(Path{0})
	v, _, err := UseState(replay, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	// The sibling keeps its state and its path.
	replay = r.Bind(Path{1})
	v, _, err = UseState(replay, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "right state", v)
}

func TestPruneInvalidatesCapturedSetters(t *testing.T) {
	r := New()

	b := r.Bind(Path{0})
	_, setter, err := UseState(b, 7)
	require.NoError(t, err)

	require.NoError(t, r.Prune(Path{0}))

	err = setter.Set(8)
	assert.ErrorIs(t, err, ErrUnknownSlot, "a stale setter must not write into a reused path")
}

func TestPruneRootClearsTree(t *testing.T) {
	r := New()

	_, err := r.Resolve(Path{0, 1})
	require.NoError(t, err)
	require.Greater(t, r.Stats().Nodes, 1)

	require.NoError(t, r.Prune(nil))
	assert.Equal(t, RegistryStats{Nodes: 1, Slots: 0}, r.Stats())
}

func TestPruneUnknownPath(t *testing.T) {
	r := New()

	err := r.Prune(Path{3})
	assert.ErrorIs(t, err, ErrUnknownPath)
}

func TestObserverNotifications(t *testing.T) {
	var (
		mu     sync.Mutex
		grown  []string
		pruned []string
		reqs   int
		sets   int
	)

	r := New(WithObserver(ObserverFunc{
		OnGrowFunc: func(path Path) {
			mu.Lock()
			grown = append(grown, path.String())
			mu.Unlock()
		},
		OnPruneFunc: func(path Path) {
			mu.Lock()
			pruned = append(pruned, path.String())
			mu.Unlock()
		},
		OnStateRequestFunc: func(Path, int, error) {
			mu.Lock()
			reqs++
			mu.Unlock()
		},
		OnSetFunc: func(Path, int, error) {
			mu.Lock()
			sets++
			mu.Unlock()
		},
	}))

	b := r.Bind(Path{0})
	_, setter, err := UseState(b, 1)
	require.NoError(t, err)
	require.NoError(t, setter.Set(2))
	require.NoError(t, r.Prune(Path{0}))

	assert.Equal(t, []string{"/0"}, grown)
	assert.Equal(t, []string{"/0"}, pruned)
	assert.Equal(t, 1, reqs)
	assert.Equal(t, 1, sets)
}

func TestLoggerReportsViolations(t *testing.T) {
	logger := &testLogger{}
	r := New(WithLogger(logger), WithAutoGrow(false))

	_, err := r.Resolve(Path{0})
	require.ErrorIs(t, err, ErrUnknownPath)

	b := r.Bind(Path{2})
	_, _, err = UseState(b, 0)
	require.ErrorIs(t, err, ErrUnknownPath)
	assert.True(t, logger.contains("state request 0"), "contract violations should be logged")
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.NotSame(t, New(), Default())
}

func TestRegistryIDsAreUnique(t *testing.T) {
	a, b := New(), New()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPathHelpers(t *testing.T) {
	p := Path{0, 2, 1}

	assert.Equal(t, "/0/2/1", p.String())
	assert.Equal(t, "/", Path{}.String())

	clone := p.Clone()
	assert.True(t, p.Equal(clone))
	clone[0] = 9
	assert.Equal(t, 0, p[0], "Clone must not share backing storage")

	child := p.Child(4)
	assert.Equal(t, Path{0, 2, 1, 4}, child)
	assert.False(t, p.Equal(child))
	assert.False(t, p.Equal(Path{0, 2, 9}))
}
