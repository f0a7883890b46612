// Package compile turns a flat model repository into a rooted containment tree.
//
// Starting from the single root class, every aggregation whose target is the
// current class becomes a child node wrapping the aggregation's source class,
// in aggregation order. The same class may appear under several parents (the
// tree duplicates it); a class that is its own ancestor is a cycle and fails
// with model.ErrCyclicAggregation.
//
// The traversal is an explicit stack rather than recursion. It carries the
// active ancestor path, which is both the cycle check and the error detail.
package compile

import (
	"strings"

	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/model"
	"go.uber.org/zap"
)

// RootPolicy decides how more than one isRoot class is handled.
type RootPolicy string

const (
	// RootStrict fails with model.ErrMultipleRoots
	RootStrict RootPolicy = "strict"
	// RootFirst keeps the first root in repository order and ignores the rest
	RootFirst RootPolicy = "first"
)

// Valid reports whether p is a known policy.
func (p RootPolicy) Valid() bool {
	return p == RootStrict || p == RootFirst
}

// Options configures a Compiler.
type Options struct {
	RootPolicy RootPolicy
}

// Node is one class in the containment tree.
type Node struct {
	Class    *model.ClassElement
	Children []*Node
}

// Name returns the wrapped class name.
func (n *Node) Name() string {
	return n.Class.Name
}

// Walk visits n and its descendants depth-first in child order.
// Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	type item struct {
		node  *Node
		depth int
	}
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.depth) {
			continue
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.depth + 1})
		}
	}
}

// Size returns the number of nodes in the tree rooted at n.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// ClassNames returns the distinct class names present in the tree, in first-visit order.
func (n *Node) ClassNames() []string {
	seen := make(map[string]bool)
	var names []string
	n.Walk(func(node *Node, _ int) bool {
		if !seen[node.Name()] {
			seen[node.Name()] = true
			names = append(names, node.Name())
		}
		return true
	})
	return names
}

// Compiler builds containment trees.
type Compiler struct {
	opts   Options
	logger *zap.SugaredLogger
}

// NewCompiler creates a compiler. A zero RootPolicy means RootStrict.
func NewCompiler(opts Options, log *zap.SugaredLogger) *Compiler {
	if opts.RootPolicy == "" {
		opts.RootPolicy = RootStrict
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Compiler{
		opts:   opts,
		logger: log.Named("compile"),
	}
}

// Compile builds the containment tree of repo. It does not modify repo.
func (c *Compiler) Compile(repo *model.Repository) (*Node, error) {
	root, err := c.selectRoot(repo)
	if err != nil {
		return nil, err
	}

	// children[target] lists edges in aggregation order
	children := make(map[string][]model.Aggregation)
	for _, a := range repo.Aggregations() {
		children[a.Target] = append(children[a.Target], a)
	}

	type frame struct {
		node  *Node
		edges []model.Aggregation
		next  int
	}

	tree := &Node{Class: root}
	path := []string{root.Name}
	onPath := map[string]bool{root.Name: true}
	stack := []*frame{{node: tree, edges: children[root.Name]}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.edges) {
			delete(onPath, top.node.Name())
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		edge := top.edges[top.next]
		top.next++

		cls, ok := repo.Class(edge.Source)
		if !ok {
			return nil, errors.WithDetailf(
				errors.Wrapf(model.ErrUnresolvedReference, "aggregation %s -> %s", edge.Source, edge.Target),
				"class %q is contained in %q but is not declared", edge.Source, edge.Target,
			)
		}
		if onPath[cls.Name] {
			cycle := append(append([]string{}, path...), cls.Name)
			return nil, errors.WithHint(
				errors.Wrapf(model.ErrCyclicAggregation, "%s", strings.Join(cycle, " -> ")),
				"a class cannot contain itself, directly or through other classes",
			)
		}

		child := &Node{Class: cls}
		top.node.Children = append(top.node.Children, child)
		c.logger.Debugw("Expanded aggregation",
			"parent", top.node.Name(),
			logger.FieldClass, cls.Name,
			logger.FieldDepth, len(path))

		path = append(path, cls.Name)
		onPath[cls.Name] = true
		stack = append(stack, &frame{node: child, edges: children[cls.Name]})
	}

	c.logger.Infow("Compiled containment tree",
		logger.FieldRoot, root.Name,
		logger.FieldCount, tree.Size(),
		logger.FieldClasses, repo.ClassCount(),
		logger.FieldAggregation, repo.AggregationCount())

	return tree, nil
}

// selectRoot applies the root policy.
func (c *Compiler) selectRoot(repo *model.Repository) (*model.ClassElement, error) {
	roots := repo.Roots()
	switch {
	case len(roots) == 0:
		return nil, errors.WithHint(
			errors.WithStack(model.ErrNoRoot),
			"mark exactly one <Class> with isRoot=\"true\"",
		)
	case len(roots) == 1:
		return roots[0], nil
	case c.opts.RootPolicy == RootFirst:
		c.logger.Warnw("Multiple root classes, keeping the first",
			logger.FieldRoot, roots[0].Name,
			logger.FieldCount, len(roots))
		return roots[0], nil
	default:
		names := make([]string, len(roots))
		for i, r := range roots {
			names[i] = r.Name
		}
		return nil, errors.WithHint(
			errors.Wrapf(model.ErrMultipleRoots, "%s", strings.Join(names, ", ")),
			"set compile.root_policy = \"first\" to keep the first root",
		)
	}
}
