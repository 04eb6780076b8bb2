// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"
	"io"
	"strconv"

	"github.com/biogo/biogo/feat"
)

// Writer consumes feature records in depth-first order. *gff.Writer
// satisfies Writer.
type Writer interface {
	Write(feat.Feature) (int, error)
}

// Node is one feature record and its children, forming a tree of gene,
// transcript and sub-transcript records. A node belongs to at most one
// parent, established once by AddChild.
type Node struct {
	Feature  *Feature
	Parent   *Node
	Children []*Node

	RemapStatus  RemapStatus
	TargetStatus TargetStatus

	// NumMappings is the number of target locations the feature mapped
	// to. Only meaningful on gene and transcript nodes.
	NumMappings int
}

// NewNode returns a parentless node holding f.
func NewNode(f *Feature) *Node { return &Node{Feature: f} }

// IsGene reports whether the node is a gene record.
func (n *Node) IsGene() bool { return n.Feature.Kind == Gene }

// IsTranscript reports whether the node is a transcript record.
func (n *Node) IsTranscript() bool { return n.Feature.Kind == Transcript }

// IsExon reports whether the node is an exon record.
func (n *Node) IsExon() bool { return n.Feature.Kind == Exon }

// IsGeneOrTranscript reports whether the node is a bounding feature.
func (n *Node) IsGeneOrTranscript() bool { return n.IsGene() || n.IsTranscript() }

// AddChild attaches c as the last child of n. A node may be attached to a
// parent only once; attaching an already-parented node panics.
func (n *Node) AddChild(c *Node) {
	if c.Parent != nil {
		panic("feature: AddChild of already-parented node")
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

// SetRemapStatus sets the remap status of n only.
func (n *Node) SetRemapStatus(s RemapStatus) { n.RemapStatus = s }

// SetRemapStatusAll sets the remap status of n and all its descendants.
func (n *Node) SetRemapStatusAll(s RemapStatus) {
	n.RemapStatus = s
	for _, c := range n.Children {
		c.SetRemapStatusAll(s)
	}
}

// SetTargetStatus sets the target status of n only.
func (n *Node) SetTargetStatus(s TargetStatus) { n.TargetStatus = s }

// SetTargetStatusAll sets the target status of n and all its descendants.
func (n *Node) SetTargetStatusAll(s TargetStatus) {
	n.TargetStatus = s
	for _, c := range n.Children {
		c.SetTargetStatusAll(s)
	}
}

// AnyChildWithRemapStatus reports whether any direct child has a remap
// status in the set.
func (n *Node) AnyChildWithRemapStatus(set RemapStatus) bool {
	for _, c := range n.Children {
		if c.RemapStatus&set != 0 {
			return true
		}
	}
	return false
}

// AllChildWithRemapStatus reports whether every direct child has a remap
// status in the set.
func (n *Node) AllChildWithRemapStatus(set RemapStatus) bool {
	for _, c := range n.Children {
		if c.RemapStatus&set == 0 {
			return false
		}
	}
	return true
}

// StampRemapStatus records the current remap status in the output
// attributes of n and all its descendants.
func (n *Node) StampRemapStatus() {
	n.Feature.SetAttr(RemapStatusAttr, n.RemapStatus.String())
	for _, c := range n.Children {
		c.StampRemapStatus()
	}
}

// StampTargetStatus records the current target status in the output
// attributes of n and all its descendants.
func (n *Node) StampTargetStatus() {
	n.Feature.SetAttr(RemapTargetStatusAttr, n.TargetStatus.String())
	for _, c := range n.Children {
		c.StampTargetStatus()
	}
}

// StampNumMappings records the mapping count in the output attributes of n
// only.
func (n *Node) StampNumMappings() {
	n.Feature.SetAttr(RemapNumMappingsAttr, strconv.Itoa(n.NumMappings))
}

// StampOriginal records the pre-remap id and location in the output
// attributes of n and all its descendants. It must be called before the
// records' coordinates are rewritten.
func (n *Node) StampOriginal() {
	if id := n.Feature.ID(); id != "" {
		n.Feature.SetAttr(RemapOriginalIDAttr, id)
	}
	n.Feature.SetAttr(RemapOriginalLocationAttr, n.Feature.Pos())
	for _, c := range n.Children {
		c.StampOriginal()
	}
}

// StampSubstitutedMissingTarget marks n and all its descendants as having
// been replaced wholesale by the target assembly's copy, annotated with the
// target annotation version.
func (n *Node) StampSubstitutedMissingTarget(targetVersion string) {
	n.Feature.SetAttr(RemapSubstitutedMissingTargetAttr, targetVersion)
	for _, c := range n.Children {
		c.StampSubstitutedMissingTarget(targetVersion)
	}
}

// Clone deep-copies the subtree rooted at n. The copy has no parent.
func (n *Node) Clone() *Node {
	nn := &Node{
		Feature:      NewFeature(&n.Feature.Feature),
		RemapStatus:  n.RemapStatus,
		TargetStatus: n.TargetStatus,
		NumMappings:  n.NumMappings,
	}
	for _, c := range n.Children {
		nn.AddChild(c.Clone())
	}
	return nn
}

// Matching returns every node in the subtree whose record satisfies
// filter, in pre-order.
func (n *Node) Matching(filter func(*Feature) bool) []*Node {
	var hits []*Node
	n.matching(filter, &hits)
	return hits
}

func (n *Node) matching(filter func(*Feature) bool, hits *[]*Node) {
	if filter(n.Feature) {
		*hits = append(*hits, n)
	}
	for _, c := range n.Children {
		c.matching(filter, hits)
	}
}

// transcriptExonSize returns the total exonic length of a transcript.
func (n *Node) transcriptExonSize() int {
	var size int
	for _, c := range n.Children {
		if c.IsExon() {
			size += c.Feature.Len()
		}
	}
	return size
}

// overlapAmount returns the number of bases shared with other, zero when
// the records are on different sequences or strands.
func (n *Node) overlapAmount(other *Node) int {
	if n.Feature.SeqName != other.Feature.SeqName || n.Feature.FeatStrand != other.Feature.FeatStrand {
		return 0
	}
	return max(0, min(n.Feature.FeatEnd, other.Feature.FeatEnd)-max(n.Feature.FeatStart, other.Feature.FeatStart))
}

// countExonOverlap returns the bases exon shares with the exons of trans.
func countExonOverlap(exon, trans *Node) int {
	var overlap int
	for _, c := range trans.Children {
		if c.IsExon() {
			overlap += exon.overlapAmount(c)
		}
	}
	return overlap
}

// ExonSimilarity returns the fraction of exonic bases shared between two
// transcripts. It is symmetric, 1 for identical exon sets and 0 when
// either transcript has no exons or the transcripts lie on different
// sequences or strands.
func (n *Node) ExonSimilarity(trans2 *Node) float64 {
	if !n.IsTranscript() || !trans2.IsTranscript() {
		panic("feature: ExonSimilarity of non-transcript node")
	}
	size1 := n.transcriptExonSize()
	size2 := trans2.transcriptExonSize()
	if size1 == 0 || size2 == 0 {
		return 0
	}
	var overlap int
	for _, c := range n.Children {
		if c.IsExon() {
			overlap += countExonOverlap(c, trans2)
		}
	}
	return float64(2*overlap) / float64(size1+size2)
}

// MaxTranscriptSimilarity returns the maximum exon similarity over all
// pairings of this gene's transcripts with gene2's. When manualOnly is
// set, only manually annotated transcripts on both sides participate. It
// returns 0 if no eligible pair exists.
func (n *Node) MaxTranscriptSimilarity(gene2 *Node, manualOnly bool) float64 {
	if !n.IsGene() || !gene2.IsGene() {
		panic("feature: MaxTranscriptSimilarity of non-gene node")
	}
	var best float64
	for _, t1 := range n.Children {
		if !t1.IsTranscript() || (manualOnly && !t1.Feature.IsManual()) {
			continue
		}
		for _, t2 := range gene2.Children {
			if !t2.IsTranscript() || (manualOnly && !t2.Feature.IsManual()) {
				continue
			}
			if s := t1.ExonSimilarity(t2); s > best {
				best = s
			}
		}
	}
	return best
}

// smallNonCodingBiotypes are the biotypes of short automatically annotated
// non-coding genes that qualify for relaxed overlap matching.
var smallNonCodingBiotypes = map[string]bool{
	"miRNA":    true,
	"misc_RNA": true,
	"rRNA":     true,
	"snRNA":    true,
	"snoRNA":   true,
	"scaRNA":   true,
	"sRNA":     true,
	"ribozyme": true,
}

// IsAutomaticSmallNonCodingGene reports whether the node is an
// automatically annotated small non-coding gene.
func (n *Node) IsAutomaticSmallNonCodingGene() bool {
	return n.Feature.IsAutomatic() && smallNonCodingBiotypes[n.Feature.Biotype()]
}

// Dump writes an indented description of the subtree for debugging.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%s %s %s remap=%v target=%v mappings=%d\n",
		n.Feature.Type(), n.Feature.ID(), n.Feature.Pos(),
		n.RemapStatus, n.TargetStatus, n.NumMappings)
	for _, c := range n.Children {
		c.dump(w, depth+1)
	}
}

// Write emits n and then each child recursively, preserving insertion
// order.
func (n *Node) Write(w Writer) error {
	if _, err := w.Write(&n.Feature.Feature); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
