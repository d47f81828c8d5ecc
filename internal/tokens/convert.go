package tokens

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Convert renders tree in format f. A non-empty namespace becomes the first
// path segment of every token; it is never joined into another key.
func Convert(tree *Tree, f Format, namespace string) (*Object, error) {
	if err := validateSegment(namespace, f, true); err != nil {
		return nil, fmt.Errorf("namespace: %w", err)
	}

	root := NewObject()
	doc := NewObject()
	doc.Set(f.RootKey, root)

	err := tree.Walk(func(path []string, tok Token) error {
		full := path
		if namespace != "" {
			full = append([]string{namespace}, path...)
		}
		for _, seg := range full {
			if err := validateSegment(seg, f, false); err != nil {
				return fmt.Errorf("token %q: %w", strings.Join(full, FlatSeparator), err)
			}
		}

		leaf := NewObject()
		leaf.Set(f.ValueKey, tok.Value)
		if f.TypeKey != "" && tok.Type != "" {
			leaf.Set(f.TypeKey, tok.Type)
		}

		if !f.Nested {
			root.Set(strings.Join(full, FlatSeparator), leaf)
			return nil
		}

		group := root
		for _, seg := range full[:len(full)-1] {
			child, ok := group.Object(seg)
			if !ok {
				child = NewObject()
				group.Set(seg, child)
			}
			group = child
		}
		group.Set(full[len(full)-1], leaf)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// validateSegment rejects names that would be ambiguous when parsed back.
func validateSegment(seg string, f Format, allowEmpty bool) error {
	if seg == "" {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("empty path segment")
	}
	if seg == f.ValueKey || (f.TypeKey != "" && seg == f.TypeKey) {
		return fmt.Errorf("segment %q collides with a %s key", seg, f.Name)
	}
	if !f.Nested && strings.Contains(seg, FlatSeparator) {
		return fmt.Errorf("segment %q contains %q", seg, FlatSeparator)
	}
	return nil
}

// Parse reads a document in format f back into an abstract tree. When namespace
// is non-empty only tokens under it are returned, with the namespace removed.
func Parse(doc *Object, f Format, namespace string) (*Tree, error) {
	root, ok := doc.Object(f.RootKey)
	if !ok {
		return nil, fmt.Errorf("document has no %q object for format %s", f.RootKey, f.Name)
	}

	tree := NewTree()

	if !f.Nested {
		for _, key := range root.Keys() {
			leaf, ok := root.Object(key)
			if !ok {
				continue
			}
			tok, ok, err := leafToken(leaf, f)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", key, err)
			}
			if !ok {
				continue
			}

			path := strings.Split(key, FlatSeparator)
			if namespace != "" {
				if path[0] != namespace {
					continue
				}
				path = path[1:]
			}
			if err := tree.Set(path, tok); err != nil {
				return nil, err
			}
		}
		return tree, nil
	}

	start := root
	if namespace != "" {
		ns, ok := root.Object(namespace)
		if !ok {
			return nil, fmt.Errorf("namespace %q not found", namespace)
		}
		start = ns
	}

	if err := parseGroup(start, nil, f, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func parseGroup(group *Object, prefix []string, f Format, tree *Tree) error {
	for _, key := range group.Keys() {
		child, ok := group.Object(key)
		if !ok {
			// Group-level metadata such as descriptions.
			continue
		}

		path := append(append([]string(nil), prefix...), key)
		tok, isLeaf, err := leafToken(child, f)
		if err != nil {
			return fmt.Errorf("token %q: %w", strings.Join(path, FlatSeparator), err)
		}
		if isLeaf {
			if err := tree.Set(path, tok); err != nil {
				return err
			}
			continue
		}
		if err := parseGroup(child, path, f, tree); err != nil {
			return err
		}
	}
	return nil
}

// leafToken reports whether obj is a token in format f and extracts it.
func leafToken(obj *Object, f Format) (Token, bool, error) {
	raw, ok := obj.Get(f.ValueKey)
	if !ok {
		return Token{}, false, nil
	}

	var tok Token
	switch v := raw.(type) {
	case string:
		tok.Value = v
	case json.Number:
		tok.Value = v.String()
	default:
		return Token{}, false, fmt.Errorf("unsupported %s value of type %T", f.ValueKey, raw)
	}

	if f.TypeKey != "" {
		if t, ok := obj.Get(f.TypeKey); ok {
			if s, ok := t.(string); ok {
				tok.Type = s
			}
		}
	}
	return tok, true, nil
}
