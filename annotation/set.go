// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package annotation indexes the gene trees of one assembly by id, name
// and genomic location, and adjudicates between overlapping candidate
// genes in a target assembly.
package annotation

import (
	"fmt"
	"io"
	"sort"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/store/interval"

	"github.com/genomap/backmap/feature"
)

// Writer consumes feature records and metadata directives. *gff.Writer
// satisfies Writer.
type Writer interface {
	Write(feat.Feature) (int, error)
	WriteMetaData(interface{}) (int, error)
}

// locEntry links a location-index interval back into an owned gene tree.
type locEntry struct {
	id   uintptr
	node *feature.Node
}

func (e locEntry) Overlap(b interval.IntRange) bool {
	return e.node.Feature.FeatEnd > b.Start && e.node.Feature.FeatStart < b.End
}
func (e locEntry) Range() interval.IntRange {
	return interval.IntRange{Start: e.node.Feature.FeatStart, End: e.node.Feature.FeatEnd}
}
func (e locEntry) ID() uintptr { return e.id }

// query is a half-open interval query.
type query struct {
	start, end int
}

func (q query) Overlap(b interval.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}

// Set holds the gene trees of one assembly. It owns every tree added to
// it; the id, name and location indexes alias into the owned trees. Up to
// two entries are kept per id or name key to accommodate pseudoautosomal
// duplicates.
type Set struct {
	genes  []*feature.Node
	byID   map[string][]*feature.Node
	byName map[string][]*feature.Node

	// loc maps sequence ids to interval trees over gene extents. It is
	// built on first spatial query.
	loc    map[string]*interval.IntTree
	nextID uintptr

	regionsWritten map[string]bool
	sizes          SizeMap
}

// New returns an empty set for incremental AddGene use. sizes may be nil.
func New(sizes SizeMap) *Set {
	return &Set{
		byID:           make(map[string][]*feature.Node),
		byName:         make(map[string][]*feature.Node),
		regionsWritten: make(map[string]bool),
		sizes:          sizes,
	}
}

// Load builds a set by draining every gene from r. sizes may be nil.
func Load(r featio.Reader, style feature.Style, sizes SizeMap) (*Set, error) {
	s := New(sizes)
	gr := feature.NewGeneReader(r, style)
	for {
		gene, err := gr.Read()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.AddGene(gene); err != nil {
			return nil, err
		}
	}
}

// AddGene inserts gene into the set and all its indexes. The set takes
// ownership of the tree. Genes with an inverted extent cannot be held in
// the location index and are rejected.
func (s *Set) AddGene(gene *feature.Node) error {
	if gene.Feature.FeatEnd < gene.Feature.FeatStart {
		return fmt.Errorf("annotation: gene %s has inverted extent %s", gene.Feature.ID(), gene.Feature.Pos())
	}
	s.genes = append(s.genes, gene)
	s.indexFeature(gene)
	for _, c := range gene.Children {
		if c.IsTranscript() {
			s.indexFeature(c)
		}
	}
	if s.loc != nil {
		s.addLocation(gene, false)
	}
	return nil
}

func (s *Set) indexFeature(n *feature.Node) {
	if id := n.Feature.ID(); id != "" {
		s.byID[id] = append(s.byID[id], n)
	}
	if hid := n.Feature.HavanaID(); hid != "" {
		s.byID[hid] = append(s.byID[hid], n)
	}
	if name := n.Feature.TypeName(); name != "" {
		s.byName[name] = append(s.byName[name], n)
	}
}

func (s *Set) addLocation(gene *feature.Node, fast bool) {
	t, ok := s.loc[gene.Feature.SeqName]
	if !ok {
		t = &interval.IntTree{}
		s.loc[gene.Feature.SeqName] = t
	}
	s.nextID++
	err := t.Insert(locEntry{id: s.nextID, node: gene}, fast)
	if err != nil {
		// Insert rejects only inverted ranges and AddGene has already
		// screened those out.
		panic(err)
	}
}

func (s *Set) buildLocationIndex() {
	s.loc = make(map[string]*interval.IntTree)
	for _, g := range s.genes {
		s.addLocation(g, true)
	}
	for _, t := range s.loc {
		t.AdjustRanges()
	}
}

// featureByKey resolves a key to a single feature. A key held by two
// features is a pseudoautosomal duplicate; the copy on the sequence other
// than seqIDForParCheck is returned. Unresolvable lookups return nil.
func featureByKey(m map[string][]*feature.Node, key, seqIDForParCheck string) *feature.Node {
	nodes := m[key]
	switch len(nodes) {
	case 1:
		return nodes[0]
	case 2:
		switch {
		case nodes[0].Feature.SeqName == seqIDForParCheck && nodes[1].Feature.SeqName != seqIDForParCheck:
			return nodes[1]
		case nodes[1].Feature.SeqName == seqIDForParCheck && nodes[0].Feature.SeqName != seqIDForParCheck:
			return nodes[0]
		}
	}
	return nil
}

// FeatureByID returns the gene or transcript with the given stable id, or
// nil. PAR duplicates are disambiguated against seqIDForParCheck.
func (s *Set) FeatureByID(id, seqIDForParCheck string) *feature.Node {
	return featureByKey(s.byID, id, seqIDForParCheck)
}

// FeatureByName returns the gene or transcript with the given name, or
// nil. PAR duplicates are disambiguated against seqIDForParCheck.
func (s *Set) FeatureByName(name, seqIDForParCheck string) *feature.Node {
	return featureByKey(s.byName, name, seqIDForParCheck)
}

// OverlappingFeatures returns every indexed gene whose extent intersects
// [start,end) on seqid, in index order. A miss is an empty result.
func (s *Set) OverlappingFeatures(seqid string, start, end int) []*feature.Node {
	if s.loc == nil {
		s.buildLocationIndex()
	}
	t, ok := s.loc[seqid]
	if !ok {
		return nil
	}
	var hits []*feature.Node
	t.DoMatching(func(iv interval.IntInterface) bool {
		hits = append(hits, iv.(locEntry).node)
		return false
	}, query{start: start, end: end})
	return hits
}

// isOverlappingGene is the composite acceptance test for a candidate gene
// found by location: it must be a gene and either share enough
// transcript-level similarity, or be a small automatic non-coding gene of
// the same biotype, for which interval overlap alone suffices.
func isOverlappingGene(gene, other *feature.Node, minSimilarity float64, manualOnly bool) bool {
	if !other.IsGene() {
		return false
	}
	if gene.IsAutomaticSmallNonCodingGene() && other.IsAutomaticSmallNonCodingGene() &&
		gene.Feature.Biotype() == other.Feature.Biotype() {
		return true
	}
	return gene.MaxTranscriptSimilarity(other, manualOnly) >= minSimilarity
}

// OverlappingGenes returns the genes overlapping gene's extent that pass
// the similarity test, in index order. Callers rank the candidates
// themselves when a single best match is required.
func (s *Set) OverlappingGenes(gene *feature.Node, minSimilarity float64, manualOnly bool) []*feature.Node {
	var hits []*feature.Node
	over := s.OverlappingFeatures(gene.Feature.SeqName, gene.Feature.FeatStart, gene.Feature.FeatEnd)
	for _, f := range over {
		if isOverlappingGene(gene, f, minSimilarity, manualOnly) {
			hits = append(hits, f)
		}
	}
	return hits
}

// Genes returns the owned gene list in current order.
func (s *Set) Genes() []*feature.Node { return s.genes }

// byGenome orders genes by sequence, start, end then id.
type byGenome []*feature.Node

func (g byGenome) Len() int      { return len(g) }
func (g byGenome) Swap(i, j int) { g[i], g[j] = g[j], g[i] }
func (g byGenome) Less(i, j int) bool {
	fi, fj := g[i].Feature, g[j].Feature
	switch {
	case fi.SeqName != fj.SeqName:
		return fi.SeqName < fj.SeqName
	case fi.FeatStart != fj.FeatStart:
		return fi.FeatStart < fj.FeatStart
	case fi.FeatEnd != fj.FeatEnd:
		return fi.FeatEnd < fj.FeatEnd
	}
	return fi.ID() < fj.ID()
}

// Sort stably reorders the gene list into genomic order.
func (s *Set) Sort() { sort.Stable(byGenome(s.genes)) }

// checkRecordSeqRegionWritten reports whether a sequence-region for seqid
// has been written, recording it if not.
func (s *Set) checkRecordSeqRegionWritten(seqid string) bool {
	if s.regionsWritten[seqid] {
		return true
	}
	s.regionsWritten[seqid] = true
	return false
}

func (s *Set) writeSeqRegionIfNeeded(gene *feature.Node, w Writer) error {
	seqid := gene.Feature.SeqName
	if s.checkRecordSeqRegionWritten(seqid) {
		return nil
	}
	end := gene.Feature.FeatEnd
	if size, ok := s.sizes[seqid]; ok {
		end = size
	}
	_, err := w.WriteMetaData(&gff.Region{Sequence: gff.Sequence{SeqName: seqid}, RegionStart: 0, RegionEnd: end})
	return err
}

// Write emits every gene tree depth-first in current order, preceded by
// one sequence-region directive per sequence id for the lifetime of the
// set.
func (s *Set) Write(w Writer) error {
	for _, g := range s.genes {
		if err := s.writeSeqRegionIfNeeded(g, w); err != nil {
			return err
		}
		if err := g.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes an indented description of every gene tree for debugging.
func (s *Set) Dump(w io.Writer) {
	for _, g := range s.genes {
		g.Dump(w)
	}
}
