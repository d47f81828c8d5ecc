package tokens

import (
	"fmt"
	"slices"
	"strings"
)

// Token is a leaf of the abstract token tree.
type Token struct {
	Value string
	Type  string
}

// Tree is an ordered, schema-independent token tree. Group and token names are
// path segments; insertion order is preserved.
type Tree struct {
	root *node
}

type node struct {
	keys     []string
	children map[string]*node
	token    *Token
}

func newGroup() *node {
	return &node{children: make(map[string]*node)}
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: newGroup()}
}

// Set stores a token at path, creating intermediate groups.
// It fails if the path is empty, has an empty segment, or crosses an existing token.
func (t *Tree) Set(path []string, tok Token) error {
	if len(path) == 0 {
		return fmt.Errorf("empty token path")
	}

	n := t.root
	for i, seg := range path {
		if seg == "" {
			return fmt.Errorf("empty segment in token path %q", strings.Join(path, FlatSeparator))
		}
		if n.token != nil {
			return fmt.Errorf("token path %q crosses a token", strings.Join(path[:i], FlatSeparator))
		}

		child, ok := n.children[seg]
		last := i == len(path)-1
		if !ok {
			child = newGroup()
			n.children[seg] = child
			n.keys = append(n.keys, seg)
		}
		if last {
			if len(child.keys) > 0 {
				return fmt.Errorf("token path %q is a group", strings.Join(path, FlatSeparator))
			}
			leaf := tok
			child.token = &leaf
		}
		n = child
	}
	return nil
}

// Get returns the token at path.
func (t *Tree) Get(path []string) (Token, bool) {
	n := t.root
	for _, seg := range path {
		child, ok := n.children[seg]
		if !ok {
			return Token{}, false
		}
		n = child
	}
	if n.token == nil {
		return Token{}, false
	}
	return *n.token, true
}

// Walk visits every token in insertion order. The path slice must not be retained.
func (t *Tree) Walk(fn func(path []string, tok Token) error) error {
	return walk(t.root, nil, fn)
}

func walk(n *node, prefix []string, fn func([]string, Token) error) error {
	if n.token != nil {
		return fn(prefix, *n.token)
	}
	for _, k := range n.keys {
		if err := walk(n.children[k], append(prefix, k), fn); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of tokens.
func (t *Tree) Len() int {
	count := 0
	_ = t.Walk(func([]string, Token) error {
		count++
		return nil
	})
	return count
}

// Leaves returns a map of FlatSeparator-joined path to value, useful for comparisons.
func (t *Tree) Leaves() map[string]string {
	out := make(map[string]string)
	_ = t.Walk(func(path []string, tok Token) error {
		out[strings.Join(path, FlatSeparator)] = tok.Value
		return nil
	})
	return out
}

// Paths returns every token path in order.
func (t *Tree) Paths() [][]string {
	var out [][]string
	_ = t.Walk(func(path []string, _ Token) error {
		out = append(out, slices.Clone(path))
		return nil
	})
	return out
}
