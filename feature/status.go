// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

// RemapStatus classifies how completely a feature's coordinates survived
// projection onto a target assembly. Values are bits so that sets of
// statuses can be tested together.
type RemapStatus uint

const (
	RemapNone       RemapStatus = 0 // not yet classified
	RemapFullContig RemapStatus = 1 << iota
	RemapFullFragment
	RemapPartial
	RemapDeleted
	RemapNoSeqMap
	RemapGeneConflict
	RemapGeneSizeChange
	RemapAutomaticGene
)

// String returns the symbol used when stamping the status attribute.
func (s RemapStatus) String() string {
	switch s {
	case RemapNone:
		return "none"
	case RemapFullContig:
		return "full_contig"
	case RemapFullFragment:
		return "full_fragment"
	case RemapPartial:
		return "partial"
	case RemapDeleted:
		return "deleted"
	case RemapNoSeqMap:
		return "no_seq_map"
	case RemapGeneConflict:
		return "gene_conflict"
	case RemapGeneSizeChange:
		return "gene_size_change"
	case RemapAutomaticGene:
		return "automatic_gene"
	}
	return "invalid"
}

// TargetStatus classifies a feature's relationship to pre-existing
// annotation in the target assembly.
type TargetStatus int

const (
	TargetNA TargetStatus = iota
	TargetNew
	TargetLost
	TargetOverlap
	TargetNonOverlap
)

// String returns the symbol used when stamping the status attribute.
func (s TargetStatus) String() string {
	switch s {
	case TargetNA:
		return "na"
	case TargetNew:
		return "new"
	case TargetLost:
		return "lost"
	case TargetOverlap:
		return "overlap"
	case TargetNonOverlap:
		return "nonOverlap"
	}
	return "invalid"
}
