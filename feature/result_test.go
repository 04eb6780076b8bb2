// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"github.com/biogo/biogo/seq"
	check "gopkg.in/check.v1"
)

// mappedGene builds a gene tree whose transcripts carry the given remap
// statuses.
func mappedGene(statuses ...RemapStatus) *Node {
	g := node("gene", "chr1", 100, 1000, seq.Plus, "HAVANA", attr("gene_id", "G1"))
	for i, st := range statuses {
		t := trans("T", "chr1", seq.Plus, "HAVANA", [2]int{100 + 100*i, 200 + 100*i})
		t.RemapStatus = st
		g.AddChild(t)
	}
	return g
}

func (s *S) TestBoundingRemapStatus(c *check.C) {
	for i, tc := range []struct {
		statuses        []RemapStatus
		srcSeqInMapping bool
		want            RemapStatus
	}{
		{[]RemapStatus{RemapFullContig, RemapFullContig}, true, RemapFullContig},
		{[]RemapStatus{RemapFullContig, RemapFullFragment}, true, RemapFullFragment},
		{[]RemapStatus{RemapFullContig, RemapDeleted}, true, RemapPartial},
		{[]RemapStatus{RemapPartial, RemapDeleted}, true, RemapPartial},
		{[]RemapStatus{RemapDeleted, RemapDeleted}, true, RemapDeleted},
		{[]RemapStatus{RemapNoSeqMap, RemapNoSeqMap}, true, RemapNoSeqMap},
		{[]RemapStatus{RemapDeleted, RemapDeleted}, false, RemapNoSeqMap},
	} {
		src := mappedGene(tc.statuses...)
		m := &MappedTrees{Src: src, Mapped: mappedGene(tc.statuses...)}
		c.Check(m.CalcBoundingRemapStatus(tc.srcSeqInMapping), check.Equals, tc.want, check.Commentf("case %d", i))

		m.SetBoundingRemapStatus(tc.srcSeqInMapping)
		c.Check(m.Mapped.RemapStatus, check.Equals, tc.want, check.Commentf("case %d", i))
		c.Check(m.Mapped.Children[0].RemapStatus, check.Equals, tc.statuses[0], check.Commentf("case %d: children untouched", i))
	}
}

func (s *S) TestMappedTreesPrecedence(c *check.C) {
	mapped := mappedGene(RemapFullContig)
	mapped.RemapStatus = RemapFullContig
	mapped.TargetStatus = TargetOverlap
	unmapped := mappedGene(RemapDeleted)
	unmapped.RemapStatus = RemapPartial
	unmapped.TargetStatus = TargetNonOverlap
	target := mappedGene(RemapFullContig)
	target.RemapStatus = RemapAutomaticGene
	target.TargetStatus = TargetNew

	m := &MappedTrees{Mapped: mapped, Unmapped: unmapped, Target: target}
	c.Check(m.RemapStatus(), check.Equals, RemapFullContig)
	c.Check(m.TargetStatus(), check.Equals, TargetOverlap)

	m.DropMapped()
	c.Check(m.Mapped, check.IsNil)
	c.Check(m.RemapStatus(), check.Equals, RemapPartial)
	c.Check(m.TargetStatus(), check.Equals, TargetNonOverlap)

	m.DropUnmapped()
	c.Check(m.RemapStatus(), check.Equals, RemapAutomaticGene)
	c.Check(m.TargetStatus(), check.Equals, TargetNew)

	m.Target = nil
	c.Check(m.RemapStatus(), check.Equals, RemapDeleted, check.Commentf("no surviving subtree means the feature is gone"))
	c.Check(m.TargetStatus(), check.Equals, TargetLost)
}

func (s *S) TestMappedTreesFanOut(c *check.C) {
	mapped := mappedGene(RemapNone)
	unmapped := mappedGene(RemapNone)
	target := mappedGene(RemapNone)
	m := &MappedTrees{Mapped: mapped, Unmapped: unmapped, Target: target}

	m.SetRemapStatusAll(RemapPartial)
	c.Check(mapped.Children[0].RemapStatus, check.Equals, RemapPartial)
	c.Check(unmapped.Children[0].RemapStatus, check.Equals, RemapPartial)
	c.Check(target.RemapStatus, check.Equals, RemapNone, check.Commentf("target tree is never fanned out to"))

	m.SetTargetStatusAll(TargetLost)
	m.StampTargetStatus()
	c.Check(mapped.Children[0].Feature.Attr(RemapTargetStatusAttr), check.Equals, "lost")
	c.Check(target.Feature.Attr(RemapTargetStatusAttr), check.Equals, "")

	mapped.NumMappings = 3
	m.StampNumMappings()
	c.Check(mapped.Feature.Attr(RemapNumMappingsAttr), check.Equals, "3")
	c.Check(m.NumMappings(), check.Equals, 3)
}

func (s *S) TestTransMappedCalcRemapStatus(c *check.C) {
	piece := func() *Node { return trans("T1", "chr1", seq.Plus, "HAVANA", [2]int{100, 200}) }
	for i, tc := range []struct {
		mapped, unmapped int
		srcSeqInMapping  bool
		want             RemapStatus
	}{
		{0, 0, false, RemapNoSeqMap},
		{0, 1, true, RemapDeleted},
		{0, 0, true, RemapDeleted},
		{1, 0, true, RemapFullContig},
		{2, 0, true, RemapFullFragment},
		{1, 1, true, RemapPartial},
		{2, 1, true, RemapPartial},
	} {
		tm := NewTransMapped(piece())
		for j := 0; j < tc.mapped; j++ {
			tm.AddMapped(piece())
		}
		for j := 0; j < tc.unmapped; j++ {
			tm.AddUnmapped(piece())
		}
		c.Check(tm.CalcRemapStatus(tc.srcSeqInMapping), check.Equals, tc.want, check.Commentf("case %d", i))

		tm.SetRemapStatus(tc.srcSeqInMapping)
		for _, n := range tm.Mapped {
			c.Check(n.RemapStatus, check.Equals, tc.want, check.Commentf("case %d", i))
		}
		for _, n := range tm.Unmapped {
			c.Check(n.RemapStatus, check.Equals, tc.want, check.Commentf("case %d", i))
		}
	}
}

func (s *S) TestTransMappedFromTrees(c *check.C) {
	src := mappedGene(RemapNone)
	m := &MappedTrees{Src: src, Mapped: mappedGene(RemapNone)}
	tm := NewTransMappedFromTrees(m)
	c.Check(tm.Src, check.Equals, src)
	c.Check(len(tm.Mapped), check.Equals, 1)
	c.Check(len(tm.Unmapped), check.Equals, 0)
}

func (s *S) TestMappedTreesList(c *check.C) {
	l := MappedTreesList{
		{Unmapped: mappedGene(RemapDeleted)},
		{},
	}
	c.Check(l.HaveMapped(), check.Equals, false)
	c.Check(l.HaveUnmapped(), check.Equals, true)

	l = append(l, &MappedTrees{Mapped: mappedGene(RemapFullContig)})
	c.Check(l.HaveMapped(), check.Equals, true)
}
