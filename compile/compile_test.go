package compile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/model"
	"go.uber.org/zap/zaptest"
)

// buildRepo creates a repository from class specs "Name" or "Name*" (root) and edges "Source>Target".
func buildRepo(t *testing.T, classes []string, edges ...string) *model.Repository {
	t.Helper()
	repo := model.NewRepository(model.DuplicateError)
	for _, spec := range classes {
		name, isRoot := spec, false
		if spec[len(spec)-1] == '*' {
			name, isRoot = spec[:len(spec)-1], true
		}
		require.NoError(t, repo.AddClass(model.NewClassElement(name, isRoot, "")))
	}
	for _, e := range edges {
		var src, dst string
		for i := range e {
			if e[i] == '>' {
				src, dst = e[:i], e[i+1:]
				break
			}
		}
		require.NotEmpty(t, src, "bad edge %q", e)
		repo.AddAggregation(model.Aggregation{Source: src, Target: dst, SourceMultiplicity: "1", TargetMultiplicity: "1"})
	}
	return repo
}

func newTestCompiler(t *testing.T, policy RootPolicy) *Compiler {
	return NewCompiler(Options{RootPolicy: policy}, zaptest.NewLogger(t).Sugar())
}

// shape renders a tree as "A(B(D),C)" for compact assertions.
func shape(n *Node) string {
	s := n.Name()
	if len(n.Children) == 0 {
		return s
	}
	s += "("
	for i, c := range n.Children {
		if i > 0 {
			s += ","
		}
		s += shape(c)
	}
	return s + ")"
}

func TestCompile_SingleRoot(t *testing.T) {
	repo := buildRepo(t, []string{"A*"})
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, "A", shape(tree))
	assert.Equal(t, 1, tree.Size())
}

func TestCompile_ChildrenFollowAggregationOrder(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B", "C", "D"}, "C>A", "D>B", "B>A")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, "A(C,B(D))", shape(tree))
}

func TestCompile_SharedChildIsDuplicated(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B", "C", "Leaf"}, "B>A", "C>A", "Leaf>B", "Leaf>C")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, "A(B(Leaf),C(Leaf))", shape(tree))
	assert.Equal(t, []string{"A", "B", "Leaf", "C"}, tree.ClassNames())
}

func TestCompile_ParallelEdges(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B"}, "B>A", "B>A")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, "A(B,B)", shape(tree))
}

func TestCompile_UnreachableClassesOmitted(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B", "Island", "Other"}, "B>A", "Other>Island")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tree.ClassNames())
}

func TestCompile_NoRoot(t *testing.T) {
	repo := buildRepo(t, []string{"A", "B"})
	_, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNoRoot))
}

func TestCompile_EmptyRepository(t *testing.T) {
	_, err := newTestCompiler(t, RootStrict).Compile(model.NewRepository(""))
	assert.True(t, errors.Is(err, model.ErrNoRoot))
}

func TestCompile_MultipleRoots(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B*", "C"}, "C>B")

	t.Run("strict fails", func(t *testing.T) {
		_, err := newTestCompiler(t, RootStrict).Compile(repo)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrMultipleRoots))
		assert.Contains(t, err.Error(), "A, B")
	})

	t.Run("first keeps repository order", func(t *testing.T) {
		tree, err := newTestCompiler(t, RootFirst).Compile(repo)
		require.NoError(t, err)
		assert.Equal(t, "A", shape(tree))
	})

	t.Run("zero policy is strict", func(t *testing.T) {
		_, err := NewCompiler(Options{}, nil).Compile(repo)
		assert.True(t, errors.Is(err, model.ErrMultipleRoots))
	})
}

func TestCompile_Cycles(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
		edges   []string
		path    string
	}{
		{"self loop on root", []string{"A*"}, []string{"A>A"}, "A -> A"},
		{"self loop below root", []string{"A*", "B"}, []string{"B>A", "B>B"}, "A -> B -> B"},
		{"two class cycle", []string{"A*", "B"}, []string{"B>A", "A>B"}, "A -> B -> A"},
		{"long cycle", []string{"A*", "B", "C", "D"}, []string{"B>A", "C>B", "D>C", "B>D"}, "A -> B -> C -> D -> B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := buildRepo(t, tt.classes, tt.edges...)
			_, err := newTestCompiler(t, RootStrict).Compile(repo)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrCyclicAggregation))
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestCompile_CycleUnreachableFromRootIsIgnored(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "X", "Y"}, "X>Y", "Y>X")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)
	assert.Equal(t, "A", shape(tree))
}

func TestCompile_UnresolvedReference(t *testing.T) {
	repo := buildRepo(t, []string{"A*"}, "Ghost>A")
	_, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnresolvedReference))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestCompile_DeepChain(t *testing.T) {
	const depth = 5000
	classes := []string{"C0*"}
	var edges []string
	for i := 1; i < depth; i++ {
		classes = append(classes, fmt.Sprintf("C%d", i))
		edges = append(edges, fmt.Sprintf("C%d>C%d", i, i-1))
	}

	tree, err := NewCompiler(Options{}, nil).Compile(buildRepo(t, classes, edges...))
	require.NoError(t, err)
	assert.Equal(t, depth, tree.Size())

	maxDepth := 0
	tree.Walk(func(_ *Node, d int) bool {
		if d > maxDepth {
			maxDepth = d
		}
		return true
	})
	assert.Equal(t, depth-1, maxDepth)
}

func TestNode_WalkSkipsChildren(t *testing.T) {
	repo := buildRepo(t, []string{"A*", "B", "C", "D"}, "B>A", "D>B", "C>A")
	tree, err := newTestCompiler(t, RootStrict).Compile(repo)
	require.NoError(t, err)

	var visited []string
	tree.Walk(func(n *Node, _ int) bool {
		visited = append(visited, n.Name())
		return n.Name() != "B"
	})
	assert.Equal(t, []string{"A", "B", "C"}, visited)
}

func TestRootPolicy_Valid(t *testing.T) {
	assert.True(t, RootStrict.Valid())
	assert.True(t, RootFirst.Valid())
	assert.False(t, RootPolicy("last").Valid())
}
