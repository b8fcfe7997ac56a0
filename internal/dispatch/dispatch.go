package dispatch

import (
	"context"
	"errors"
	"sort"

	"flightrec/internal/abbrev"
)

// HandlerFunc runs a command with the arguments that were not consumed for
// routing.
type HandlerFunc func(ctx context.Context, args []string) error

// Node is either a handler or a group of named subcommands.
type Node interface {
	isNode()
}

type handlerNode struct {
	fn HandlerFunc
}

func (handlerNode) isNode() {}

type groupNode struct {
	children map[string]Node
	def      HandlerFunc
	table    abbrev.Table
}

func (*groupNode) isNode() {}

// Handler wraps fn as a terminal node.
func Handler(fn HandlerFunc) Node {
	return handlerNode{fn: fn}
}

// Group builds a node whose children are selected by name. def runs when the
// arguments are exhausted at this group or the next argument names no child;
// it may be nil. An empty child name is ignored.
func Group(children map[string]Node, def HandlerFunc) Node {
	kept := make(map[string]Node, len(children))
	names := make([]string, 0, len(children))
	for name, child := range children {
		if name == "" || child == nil {
			continue
		}
		kept[name] = child
		names = append(names, name)
	}
	return &groupNode{children: kept, def: def, table: abbrev.Build(names)}
}

// Dispatch walks args through root and invokes exactly one handler.
func Dispatch(ctx context.Context, root Node, args []string) error {
	if root == nil {
		return errors.New("dispatch: nil command table")
	}
	var path []string
	node := root
	for i := 0; ; i++ {
		switch n := node.(type) {
		case handlerNode:
			return n.fn(ctx, args[i:])
		case *groupNode:
			if i >= len(args) {
				if n.def == nil {
					return &NotFoundError{Path: path, Candidates: n.table.Candidates()}
				}
				return n.def(ctx, []string{})
			}
			token := args[i]
			name, result := n.table.Resolve(token)
			switch result {
			case abbrev.Resolved:
				path = append(path, name)
				node = n.children[name]
			case abbrev.Ambiguous:
				return &AmbiguousCommandError{
					Path:       path,
					Token:      token,
					Candidates: n.table.Matches(token),
				}
			default:
				if n.def == nil {
					return &NotFoundError{
						Path:        path,
						Token:       token,
						Candidates:  n.table.Candidates(),
						Suggestions: suggest(token, n.table.Candidates()),
					}
				}
				return n.def(ctx, args[i:])
			}
		default:
			return errors.New("dispatch: unknown node type")
		}
	}
}

// Walk calls fn for every runnable command path in sorted order. A group with
// a default handler is reported under its own path.
func Walk(root Node, fn func(path []string)) {
	walk(root, nil, fn)
}

func walk(node Node, path []string, fn func(path []string)) {
	switch n := node.(type) {
	case handlerNode:
		fn(append([]string(nil), path...))
	case *groupNode:
		if n.def != nil {
			fn(append([]string(nil), path...))
		}
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			walk(n.children[name], append(path, name), fn)
		}
	}
}

// Names returns the sorted child names of a group, or nil for a handler.
func Names(node Node) []string {
	if g, ok := node.(*groupNode); ok {
		return g.table.Candidates()
	}
	return nil
}
