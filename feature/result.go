// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

// MappedTrees is the outcome of projecting one source subtree onto a
// target assembly: an optional mapped subtree, an optional unmapped
// remainder and, when the gene could not be mapped and the target copy is
// substituted wholesale, a target-derived tree. Src is owned by the source
// annotation set, never by MappedTrees.
type MappedTrees struct {
	Src      *Node
	Mapped   *Node
	Unmapped *Node
	Target   *Node // substituted from the target assembly
}

// RemapStatus returns the remap status of the mapped tree, falling back to
// the unmapped then the target tree. With no surviving tree the feature is
// deleted.
func (m *MappedTrees) RemapStatus() RemapStatus {
	switch {
	case m.Mapped != nil:
		return m.Mapped.RemapStatus
	case m.Unmapped != nil:
		return m.Unmapped.RemapStatus
	case m.Target != nil:
		return m.Target.RemapStatus
	}
	return RemapDeleted
}

// TargetStatus returns the target status of the mapped tree, falling back
// to the unmapped then the target tree. With no surviving tree the feature
// is lost.
func (m *MappedTrees) TargetStatus() TargetStatus {
	switch {
	case m.Mapped != nil:
		return m.Mapped.TargetStatus
	case m.Unmapped != nil:
		return m.Unmapped.TargetStatus
	case m.Target != nil:
		return m.Target.TargetStatus
	}
	return TargetLost
}

// NumMappings returns the mapping count of the mapped tree, falling back
// to the unmapped tree.
func (m *MappedTrees) NumMappings() int {
	switch {
	case m.Mapped != nil:
		return m.Mapped.NumMappings
	case m.Unmapped != nil:
		return m.Unmapped.NumMappings
	}
	return 0
}

// SetRemapStatusAll recursively sets the remap status on the mapped and
// unmapped trees.
func (m *MappedTrees) SetRemapStatusAll(s RemapStatus) {
	if m.Mapped != nil {
		m.Mapped.SetRemapStatusAll(s)
	}
	if m.Unmapped != nil {
		m.Unmapped.SetRemapStatusAll(s)
	}
}

// SetTargetStatus sets the target status on the roots of the mapped and
// unmapped trees.
func (m *MappedTrees) SetTargetStatus(s TargetStatus) {
	if m.Mapped != nil {
		m.Mapped.SetTargetStatus(s)
	}
	if m.Unmapped != nil {
		m.Unmapped.SetTargetStatus(s)
	}
}

// SetTargetStatusAll recursively sets the target status on the mapped and
// unmapped trees.
func (m *MappedTrees) SetTargetStatusAll(s TargetStatus) {
	if m.Mapped != nil {
		m.Mapped.SetTargetStatusAll(s)
	}
	if m.Unmapped != nil {
		m.Unmapped.SetTargetStatusAll(s)
	}
}

// StampRemapStatus stamps the remap status attribute through the mapped
// and unmapped trees.
func (m *MappedTrees) StampRemapStatus() {
	if m.Mapped != nil {
		m.Mapped.StampRemapStatus()
	}
	if m.Unmapped != nil {
		m.Unmapped.StampRemapStatus()
	}
}

// StampTargetStatus stamps the target status attribute through the mapped
// and unmapped trees.
func (m *MappedTrees) StampTargetStatus() {
	if m.Mapped != nil {
		m.Mapped.StampTargetStatus()
	}
	if m.Unmapped != nil {
		m.Unmapped.StampTargetStatus()
	}
}

// StampNumMappings stamps the mapping count attribute on the roots of the
// mapped and unmapped trees.
func (m *MappedTrees) StampNumMappings() {
	if m.Mapped != nil {
		m.Mapped.StampNumMappings()
	}
	if m.Unmapped != nil {
		m.Unmapped.StampNumMappings()
	}
}

// DropMapped discards the mapped tree.
func (m *MappedTrees) DropMapped() { m.Mapped = nil }

// DropUnmapped discards the unmapped tree.
func (m *MappedTrees) DropUnmapped() { m.Unmapped = nil }

func (m *MappedTrees) anyChildWithRemapStatus(set RemapStatus) bool {
	return (m.Mapped != nil && m.Mapped.AnyChildWithRemapStatus(set)) ||
		(m.Unmapped != nil && m.Unmapped.AnyChildWithRemapStatus(set))
}

func (m *MappedTrees) allChildWithRemapStatus(set RemapStatus) bool {
	return (m.Mapped == nil || m.Mapped.AllChildWithRemapStatus(set)) &&
		(m.Unmapped == nil || m.Unmapped.AllChildWithRemapStatus(set))
}

// CalcBoundingRemapStatus determines a gene or transcript remap status
// from the statuses of its children. Conflict and size-change statuses are
// forced by the caller, never derived here. srcSeqInMapping indicates
// whether the source sequence took part in the projection at all; when it
// did not, the children cannot be blamed for failing to map.
func (m *MappedTrees) CalcBoundingRemapStatus(srcSeqInMapping bool) RemapStatus {
	if !srcSeqInMapping {
		return RemapNoSeqMap
	}
	switch {
	case m.allChildWithRemapStatus(RemapFullContig):
		return RemapFullContig
	case m.allChildWithRemapStatus(RemapFullContig | RemapFullFragment):
		return RemapFullFragment
	case m.allChildWithRemapStatus(RemapDeleted):
		return RemapDeleted
	case m.allChildWithRemapStatus(RemapNoSeqMap):
		return RemapNoSeqMap
	case m.anyChildWithRemapStatus(RemapFullContig | RemapFullFragment | RemapPartial):
		return RemapPartial
	}
	return RemapDeleted
}

// SetBoundingRemapStatus computes the bounding remap status and applies it
// to the roots of the mapped and unmapped trees.
func (m *MappedTrees) SetBoundingRemapStatus(srcSeqInMapping bool) {
	s := m.CalcBoundingRemapStatus(srcSeqInMapping)
	if m.Mapped != nil {
		m.Mapped.SetRemapStatus(s)
	}
	if m.Unmapped != nil {
		m.Unmapped.SetRemapStatus(s)
	}
}

// MappedTreesList is a collection of projection outcomes, one per mapping
// of a source feature.
type MappedTreesList []*MappedTrees

// HaveMapped reports whether any outcome has a mapped tree.
func (l MappedTreesList) HaveMapped() bool {
	for _, m := range l {
		if m.Mapped != nil {
			return true
		}
	}
	return false
}

// HaveUnmapped reports whether any outcome has an unmapped tree.
func (l MappedTreesList) HaveUnmapped() bool {
	for _, m := range l {
		if m.Unmapped != nil {
			return true
		}
	}
	return false
}

// TransMapped holds the pieces of one source feature after projection. A
// single feature may fragment into several target pieces when its interval
// spans an assembly join.
type TransMapped struct {
	Src      *Node
	Mapped   []*Node
	Unmapped []*Node
}

// NewTransMapped returns a TransMapped for src with no pieces.
func NewTransMapped(src *Node) *TransMapped { return &TransMapped{Src: src} }

// NewTransMappedFromTrees returns a TransMapped holding the trees of m.
func NewTransMappedFromTrees(m *MappedTrees) *TransMapped {
	t := &TransMapped{Src: m.Src}
	if m.Mapped != nil {
		t.Mapped = append(t.Mapped, m.Mapped)
	}
	if m.Unmapped != nil {
		t.Unmapped = append(t.Unmapped, m.Unmapped)
	}
	return t
}

// AddMapped appends a mapped piece.
func (t *TransMapped) AddMapped(n *Node) { t.Mapped = append(t.Mapped, n) }

// AddUnmapped appends an unmapped piece.
func (t *TransMapped) AddUnmapped(n *Node) { t.Unmapped = append(t.Unmapped, n) }

// CalcRemapStatus classifies a single level of mapping, immediately after
// a projection attempt and before the tree is reassembled. It does not
// recurse into children.
func (t *TransMapped) CalcRemapStatus(srcSeqInMapping bool) RemapStatus {
	switch {
	case !srcSeqInMapping:
		return RemapNoSeqMap
	case len(t.Mapped) == 0:
		return RemapDeleted
	case len(t.Unmapped) != 0:
		return RemapPartial
	case len(t.Mapped) == 1:
		return RemapFullContig
	}
	return RemapFullFragment
}

// SetRemapStatus computes the single-level remap status and assigns it to
// every mapped and unmapped piece.
func (t *TransMapped) SetRemapStatus(srcSeqInMapping bool) {
	s := t.CalcRemapStatus(srcSeqInMapping)
	for _, n := range t.Mapped {
		n.RemapStatus = s
	}
	for _, n := range t.Unmapped {
		n.RemapStatus = s
	}
}
