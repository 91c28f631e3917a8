package battleship

// BST is an integer-keyed binary search tree mapping coordinate codes to
// small payloads: a ship's placement index in the occupancy index, a shot
// result in the fired-shots index.
//
// Bulk loads rebuild the whole tree from the sorted key list, taking the
// middle element as the root and recursing on each half, which keeps the
// height at ceil(log2(n+1)). Single-key inserts splice into place without
// rebalancing, so a long run of them can skew the tree; only the
// fired-shots index grows that way and it is never walked deeper than a
// lookup.
type BST struct {
	root *bstNode
	size int
}

type bstNode struct {
	code  int
	value int
	left  *bstNode
	right *bstNode
}

// Entry is a code/payload pair.
type Entry struct {
	Code  int
	Value int
}

// Insert splices a single code into place without rebalancing. It reports
// false and leaves the tree unchanged if the code is already present.
func (t *BST) Insert(code, value int) bool {
	n := &t.root
	for *n != nil {
		switch {
		case code < (*n).code:
			n = &(*n).left
		case code > (*n).code:
			n = &(*n).right
		default:
			return false
		}
	}
	*n = &bstNode{code: code, value: value}
	t.size++
	return true
}

// InsertMany bulk-loads a batch of entries, rebuilding the tree balanced.
// Entries must be sorted ascending by code; a code already present is
// overwritten with the new payload.
func (t *BST) InsertMany(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	if t.root != nil {
		entries = mergeEntries(t.InOrder(), entries)
	}
	t.root = buildBalanced(entries)
	t.size = len(entries)
}

// buildBalanced constructs a tree from sorted entries: the entry at
// floor(n/2) becomes the root and each half builds recursively.
func buildBalanced(entries []Entry) *bstNode {
	if len(entries) == 0 {
		return nil
	}
	mid := len(entries) / 2
	return &bstNode{
		code:  entries[mid].Code,
		value: entries[mid].Value,
		left:  buildBalanced(entries[:mid]),
		right: buildBalanced(entries[mid+1:]),
	}
}

// mergeEntries merges two sorted entry slices, letting b win on collisions.
func mergeEntries(a, b []Entry) []Entry {
	out := make([]Entry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Code < b[j].Code:
			out = append(out, a[i])
			i++
		case a[i].Code > b[j].Code:
			out = append(out, b[j])
			j++
		default:
			out = append(out, b[j])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Contains reports whether code is present.
func (t *BST) Contains(code int) bool {
	_, ok := t.Lookup(code)
	return ok
}

// Lookup returns the payload stored under code.
func (t *BST) Lookup(code int) (int, bool) {
	n := t.root
	for n != nil {
		switch {
		case code < n.code:
			n = n.left
		case code > n.code:
			n = n.right
		default:
			return n.value, true
		}
	}
	return 0, false
}

// InOrder returns every entry in ascending code order.
func (t *BST) InOrder() []Entry {
	out := make([]Entry, 0, t.size)
	var walk func(n *bstNode)
	walk = func(n *bstNode) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, Entry{Code: n.code, Value: n.value})
		walk(n.right)
	}
	walk(t.root)
	return out
}

// Size returns the number of stored codes.
func (t *BST) Size() int { return t.size }

// Height returns the number of levels, 0 for an empty tree.
func (t *BST) Height() int {
	var depth func(n *bstNode) int
	depth = func(n *bstNode) int {
		if n == nil {
			return 0
		}
		l, r := depth(n.left), depth(n.right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return depth(t.root)
}
