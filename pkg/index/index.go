// Package index implements the ordered primary-key index: an unbalanced
// binary search tree keyed by value.Value, used to drive in-order
// sequential retrieval (spec §4.2). The tree holds references to rows
// owned elsewhere (a *table.Tuple); it never owns a copy.
package index

import (
	"fmt"

	"github.com/marshallshelly/miniql/pkg/value"
)

// Ref is the payload stored under each key: an opaque reference the owner
// (pkg/table) supplies and gets back unchanged. Using `any` here avoids an
// import cycle between pkg/index and pkg/table while keeping the tree
// reusable for any ordered key/row pair.
type Ref = any

type node struct {
	key         value.Value
	ref         Ref
	left, right *node
}

// Tree is an unbalanced binary search tree over value.Value keys.
type Tree struct {
	root *node
	size int
}

// New returns an empty Tree.
func New() *Tree { return &Tree{} }

// Len returns the number of entries currently in the tree.
func (t *Tree) Len() int { return t.size }

// Insert adds key->ref. It returns an error if key already exists — the
// Tuple Store is expected to have already rejected duplicates (§4.1), this
// is a defensive check per §4.2 ("the index itself should also reject and
// signal duplicates to catch bugs").
func (t *Tree) Insert(key value.Value, ref Ref) error {
	n, err := insert(t.root, key, ref)
	if err != nil {
		return err
	}
	t.root = n
	t.size++
	return nil
}

func insert(n *node, key value.Value, ref Ref) (*node, error) {
	if n == nil {
		return &node{key: key, ref: ref}, nil
	}
	c, err := value.Compare(key, n.key)
	if err != nil {
		return nil, err
	}
	switch {
	case c == 0:
		return nil, fmt.Errorf("duplicate key %v in index", key)
	case c < 0:
		left, err := insert(n.left, key, ref)
		if err != nil {
			return nil, err
		}
		n.left = left
	default:
		right, err := insert(n.right, key, ref)
		if err != nil {
			return nil, err
		}
		n.right = right
	}
	return n, nil
}

// Lookup returns the ref stored under key, or false if absent.
func (t *Tree) Lookup(key value.Value) (Ref, bool) {
	n := t.root
	for n != nil {
		c, err := value.Compare(key, n.key)
		if err != nil {
			return nil, false
		}
		switch {
		case c == 0:
			return n.ref, true
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil, false
}

// Delete removes key from the tree, if present. Uses in-order successor
// replacement when a node has two children (§4.2); no rebalancing.
func (t *Tree) Delete(key value.Value) {
	var deleted bool
	t.root, deleted = remove(t.root, key)
	if deleted {
		t.size--
	}
}

func remove(n *node, key value.Value) (*node, bool) {
	if n == nil {
		return nil, false
	}
	c, err := value.Compare(key, n.key)
	if err != nil {
		return n, false
	}
	switch {
	case c < 0:
		var ok bool
		n.left, ok = remove(n.left, key)
		return n, ok
	case c > 0:
		var ok bool
		n.right, ok = remove(n.right, key)
		return n, ok
	default:
		switch {
		case n.left == nil:
			return n.right, true
		case n.right == nil:
			return n.left, true
		default:
			succ := n.right
			for succ.left != nil {
				succ = succ.left
			}
			n.key, n.ref = succ.key, succ.ref
			n.right, _ = remove(n.right, succ.key)
			return n, true
		}
	}
}

// InOrder returns every ref in ascending key order (spec §4.2/§8 ordering
// guarantee).
func (t *Tree) InOrder() []Ref {
	out := make([]Ref, 0, t.size)
	var walk func(*node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.ref)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// Keys returns every key currently in the tree, in ascending order —
// used by the index-bijection property check in tests.
func (t *Tree) Keys() []value.Value {
	out := make([]value.Value, 0, t.size)
	var walk func(*node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.key)
		walk(n.right)
	}
	walk(t.root)
	return out
}
