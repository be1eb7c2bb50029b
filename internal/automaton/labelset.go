package automaton

import (
	"encoding/binary"
	"slices"
	"strconv"
	"strings"
)

// LabelSet is an immutable, sorted set of state labels with value semantics.
// Two sets holding the same labels are Equal and share the same Key, which is
// what lets a set of NFA states act as the identity of a DFA state.
//
// The zero value is the empty set.
type LabelSet struct {
	labels []Label
}

// NewLabelSet returns the set of the given labels. Duplicates are dropped.
func NewLabelSet(labels ...Label) LabelSet {
	if len(labels) == 0 {
		return LabelSet{}
	}
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	return LabelSet{labels: slices.Compact(sorted)}
}

// Len returns the number of labels in the set.
func (s LabelSet) Len() int { return len(s.labels) }

// Empty reports whether the set has no labels.
func (s LabelSet) Empty() bool { return len(s.labels) == 0 }

// Contains reports whether l is a member of the set.
func (s LabelSet) Contains(l Label) bool {
	_, ok := slices.BinarySearch(s.labels, l)
	return ok
}

// At returns the i-th smallest label.
func (s LabelSet) At(i int) Label { return s.labels[i] }

// Labels returns the members in ascending order. The slice is a copy.
func (s LabelSet) Labels() []Label { return slices.Clone(s.labels) }

// Each calls fn for every label in ascending order.
func (s LabelSet) Each(fn func(Label)) {
	for _, l := range s.labels {
		fn(l)
	}
}

// Union returns the set of labels present in s or other.
func (s LabelSet) Union(other LabelSet) LabelSet {
	if other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	merged := make([]Label, 0, len(s.labels)+len(other.labels))
	i, j := 0, 0
	for i < len(s.labels) && j < len(other.labels) {
		a, b := s.labels[i], other.labels[j]
		switch {
		case a < b:
			merged = append(merged, a)
			i++
		case b < a:
			merged = append(merged, b)
			j++
		default:
			merged = append(merged, a)
			i++
			j++
		}
	}
	merged = append(merged, s.labels[i:]...)
	merged = append(merged, other.labels[j:]...)
	return LabelSet{labels: merged}
}

// UnionAll returns the union of every given set.
func UnionAll(sets ...LabelSet) LabelSet {
	n := 0
	for _, s := range sets {
		n += s.Len()
	}
	if n == 0 {
		return LabelSet{}
	}
	all := make([]Label, 0, n)
	for _, s := range sets {
		all = append(all, s.labels...)
	}
	slices.Sort(all)
	return LabelSet{labels: slices.Compact(all)}
}

// Intersects reports whether s and other share at least one label.
func (s LabelSet) Intersects(other LabelSet) bool {
	i, j := 0, 0
	for i < len(s.labels) && j < len(other.labels) {
		switch {
		case s.labels[i] < other.labels[j]:
			i++
		case other.labels[j] < s.labels[i]:
			j++
		default:
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold exactly the same labels.
func (s LabelSet) Equal(other LabelSet) bool {
	return slices.Equal(s.labels, other.labels)
}

// Key returns a compact binary encoding of the set, suitable as a map key.
// Equal sets always produce equal keys.
func (s LabelSet) Key() string {
	if len(s.labels) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(s.labels) * 8)
	var buf [8]byte
	for _, l := range s.labels {
		binary.LittleEndian.PutUint64(buf[:], uint64(l))
		_, _ = sb.Write(buf[:])
	}
	return sb.String()
}

// String renders the set as "[0, 1, 2]".
func (s LabelSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, l := range s.labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(l)))
	}
	sb.WriteByte(']')
	return sb.String()
}
