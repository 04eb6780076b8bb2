// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"io"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	check "gopkg.in/check.v1"
)

// sliceReader is a featio.Reader over prebuilt records.
type sliceReader struct {
	recs []*gff.Feature
	i    int
}

func (r *sliceReader) Read() (feat.Feature, error) {
	if r.i == len(r.recs) {
		return nil, io.EOF
	}
	f := r.recs[r.i]
	r.i++
	return f, nil
}

func (s *S) TestParseStyle(c *check.C) {
	st, err := ParseStyle("gff3")
	c.Check(err, check.IsNil)
	c.Check(st, check.Equals, StyleGFF3)
	st, err = ParseStyle("gtf")
	c.Check(err, check.IsNil)
	c.Check(st, check.Equals, StyleGTF)
	_, err = ParseStyle("bed")
	c.Check(err, check.ErrorMatches, ".*unknown annotation style.*")
}

func (s *S) TestReadGFF3(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "gene1"), attr("gene_id", "G1")),
		rec("transcript", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "tr1"), attr("Parent", "gene1"), attr("transcript_id", "T1")),
		rec("exon", "chr1", 100, 200, seq.Plus, "HAVANA", attr("Parent", "tr1")),
		rec("exon", "chr1", 300, 400, seq.Plus, "HAVANA", attr("Parent", "tr1")),
		rec("transcript", "chr1", 100, 200, seq.Plus, "HAVANA",
			attr("ID", "tr2"), attr("Parent", "gene1"), attr("transcript_id", "T2")),
		rec("exon", "chr1", 100, 200, seq.Plus, "HAVANA", attr("Parent", "tr2")),
		rec("gene", "chr1", 1000, 2000, seq.Plus, "ENSEMBL",
			attr("ID", "gene2"), attr("gene_id", "G2")),
		rec("transcript", "chr1", 1000, 2000, seq.Plus, "ENSEMBL",
			attr("ID", "tr3"), attr("Parent", "gene2"), attr("transcript_id", "T3")),
	}}

	gr := NewGeneReader(in, StyleGFF3)
	g1, err := gr.Read()
	c.Assert(err, check.IsNil)
	c.Check(g1.Feature.ID(), check.Equals, "G1")
	c.Assert(len(g1.Children), check.Equals, 2)
	c.Check(g1.Children[0].Feature.ID(), check.Equals, "T1")
	c.Check(len(g1.Children[0].Children), check.Equals, 2)
	c.Check(g1.Children[1].Feature.ID(), check.Equals, "T2")
	c.Check(len(g1.Children[1].Children), check.Equals, 1)

	g2, err := gr.Read()
	c.Assert(err, check.IsNil)
	c.Check(g2.Feature.ID(), check.Equals, "G2")
	c.Check(len(g2.Children), check.Equals, 1)

	_, err = gr.Read()
	c.Check(err, check.Equals, io.EOF)
}

func (s *S) TestReadGFF3BadParent(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "gene1"), attr("gene_id", "G1")),
		rec("transcript", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "tr1"), attr("Parent", "nonesuch"), attr("transcript_id", "T1")),
	}}
	_, err := NewGeneReader(in, StyleGFF3).Read()
	c.Check(err, check.ErrorMatches, ".*unknown parent \"nonesuch\".*")
}

func (s *S) TestReadGTF(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "G1"), attr("gene_type", "protein_coding")),
		rec("transcript", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1")),
		rec("exon", "chr1", 100, 200, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1"), attr("exon_id", "E1")),
		rec("CDS", "chr1", 120, 200, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1"), attr("exon_id", "E1")),
		rec("gene", "chr2", 100, 200, seq.Plus, "ENSEMBL",
			attr("gene_id", "G2")),
		rec("transcript", "chr2", 100, 200, seq.Plus, "ENSEMBL",
			attr("gene_id", "G2"), attr("transcript_id", "T2")),
	}}

	gr := NewGeneReader(in, StyleGTF)
	g1, err := gr.Read()
	c.Assert(err, check.IsNil)
	c.Check(g1.Feature.ID(), check.Equals, "G1")
	c.Check(g1.Feature.Attr("transcript_id"), check.Equals, "", check.Commentf("leaked transcript attrs must be stripped"))
	c.Assert(len(g1.Children), check.Equals, 1)
	t1 := g1.Children[0]
	c.Assert(len(t1.Children), check.Equals, 2)
	c.Check(t1.Children[0].Feature.Type(), check.Equals, "exon")
	c.Check(t1.Children[0].Feature.Attr("exon_id"), check.Equals, "E1")
	c.Check(t1.Children[1].Feature.Type(), check.Equals, "CDS")
	c.Check(t1.Children[1].Feature.Attr("exon_id"), check.Equals, "", check.Commentf("exon ids on non-exon records are a GTF quirk"))

	g2, err := gr.Read()
	c.Assert(err, check.IsNil)
	c.Check(g2.Feature.ID(), check.Equals, "G2")

	_, err = gr.Read()
	c.Check(err, check.Equals, io.EOF)
}

func (s *S) TestReadGTFOutOfOrder(c *check.C) {
	// The exon arrives before any transcript exists and must be queued
	// and retried.
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA", attr("gene_id", "G1")),
		rec("exon", "chr1", 100, 200, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1")),
		rec("transcript", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1")),
	}}
	g, err := NewGeneReader(in, StyleGTF).Read()
	c.Assert(err, check.IsNil)
	c.Assert(len(g.Children), check.Equals, 1)
	c.Check(len(g.Children[0].Children), check.Equals, 1)
}

func (s *S) TestReadGTFUnresolvable(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA", attr("gene_id", "G1")),
		rec("exon", "chr1", 100, 200, seq.Plus, "HAVANA",
			attr("gene_id", "G1"), attr("transcript_id", "T1")),
	}}
	_, err := NewGeneReader(in, StyleGTF).Read()
	c.Check(err, check.ErrorMatches, ".*unresolvable parents.*")
}

func (s *S) TestReadAll(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("gene", "chr1", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "gene1"), attr("gene_id", "G1")),
		rec("gene", "chr2", 100, 400, seq.Plus, "HAVANA",
			attr("ID", "gene2"), attr("gene_id", "G2")),
	}}
	genes, err := NewGeneReader(in, StyleGFF3).ReadAll()
	c.Assert(err, check.IsNil)
	c.Assert(len(genes), check.Equals, 2)
	c.Check(genes[0].Feature.ID(), check.Equals, "G1")
	c.Check(genes[1].Feature.ID(), check.Equals, "G2")
}

func (s *S) TestReadOutsideGene(c *check.C) {
	in := &sliceReader{recs: []*gff.Feature{
		rec("transcript", "chr1", 100, 400, seq.Plus, "HAVANA", attr("transcript_id", "T1")),
	}}
	_, err := NewGeneReader(in, StyleGFF3).Read()
	c.Check(err, check.ErrorMatches, ".*outside any gene.*")
}
