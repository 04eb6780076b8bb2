// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

// Style selects how parent/child linkage is expressed in an input stream.
// The style is fixed once per stream, never per record.
type Style int

const (
	// StyleGFF3 names each record's parent explicitly through ID and
	// Parent attributes.
	StyleGFF3 Style = iota
	// StyleGTF infers linkage from the gene > transcript > exon type
	// hierarchy and record order.
	StyleGTF
)

// ParseStyle returns the Style named by s.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "gff3":
		return StyleGFF3, nil
	case "gtf":
		return StyleGTF, nil
	}
	return 0, fmt.Errorf("feature: unknown annotation style %q", s)
}

// treeBuilder resolves the parent of a record within a partly built gene
// tree. A nil node with a nil error means the record cannot be placed yet
// and should be retried after more of the stream has been consumed.
type treeBuilder interface {
	findParent(leaf *Node, rec *Feature) (*Node, error)
	normalize(root *Node)
}

// GeneReader reads gene trees from a stream of flat feature records. The
// records of one gene must be contiguous apart from the bounded
// out-of-order tolerance of the GTF style.
type GeneReader struct {
	r       featio.Reader
	build   treeBuilder
	pending *Feature
}

// NewGeneReader returns a GeneReader reading records from r with linkage
// resolved according to style.
func NewGeneReader(r featio.Reader, style Style) *GeneReader {
	gr := &GeneReader{r: r}
	if style == StyleGTF {
		gr.build = gtfBuilder{}
	} else {
		gr.build = gff3Builder{}
	}
	return gr
}

// next returns the next record, honouring one record of pushback.
func (g *GeneReader) next() (*Feature, error) {
	if g.pending != nil {
		f := g.pending
		g.pending = nil
		return f, nil
	}
	rec, err := g.r.Read()
	if err != nil {
		return nil, err
	}
	gf, ok := rec.(*gff.Feature)
	if !ok {
		return nil, fmt.Errorf("feature: record is not a GFF feature: %v", rec)
	}
	return NewFeature(gf), nil
}

// Read returns the next gene tree from the stream. It returns io.EOF at
// end of input and an error if parent/child linkage cannot be resolved.
func (g *GeneReader) Read() (*Node, error) {
	f, err := g.next()
	if err != nil {
		return nil, err
	}
	if f.Kind != Gene {
		return nil, fmt.Errorf("feature: record %s type %q outside any gene", f.Pos(), f.Type())
	}
	root := NewNode(f)
	leaf := root
	var queued []*Feature
	for {
		rec, err := g.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if g.endsGene(root, rec) {
			g.pending = rec
			break
		}
		leaf, err = g.attach(root, leaf, rec, &queued)
		if err != nil {
			return nil, err
		}
	}
	if len(queued) != 0 {
		return nil, fmt.Errorf("feature: gene %s has %d records with unresolvable parents, first %s type %q",
			root.Feature.ID(), len(queued), queued[0].Pos(), queued[0].Type())
	}
	g.build.normalize(root)
	return root, nil
}

// ReadAll reads all remaining gene trees. A successful call returns a nil
// error, not io.EOF.
func (g *GeneReader) ReadAll() ([]*Node, error) {
	var genes []*Node
	for {
		gene, err := g.Read()
		if err == io.EOF {
			return genes, nil
		}
		if err != nil {
			return nil, err
		}
		genes = append(genes, gene)
	}
}

// endsGene reports whether rec starts the next gene.
func (g *GeneReader) endsGene(root *Node, rec *Feature) bool {
	if rec.Kind == Gene {
		return true
	}
	// A changed grouping tag also ends the gene; GTF streams are not
	// required to carry gene records.
	gid := rec.Attr("gene_id")
	return gid != "" && root.Feature.Attr("gene_id") != "" && gid != root.Feature.Attr("gene_id")
}

// attach places rec in the tree, retrying queued records whenever the tree
// has grown. It returns the new leaf, the most recently placed node.
func (g *GeneReader) attach(root, leaf *Node, rec *Feature, queued *[]*Feature) (*Node, error) {
	parent, err := g.build.findParent(leaf, rec)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		*queued = append(*queued, rec)
		return leaf, nil
	}
	node := NewNode(rec)
	parent.AddChild(node)
	leaf = node
	// Queued records may now be placeable.
	for progress := true; progress && len(*queued) != 0; {
		progress = false
		rest := (*queued)[:0]
		for _, q := range *queued {
			parent, err := g.build.findParent(leaf, q)
			if err != nil {
				return nil, err
			}
			if parent == nil {
				rest = append(rest, q)
				continue
			}
			node := NewNode(q)
			parent.AddChild(node)
			leaf = node
			progress = true
		}
		*queued = rest
	}
	return leaf, nil
}

// gff3Builder resolves parents through explicit ID/Parent attributes.
type gff3Builder struct{}

func (gff3Builder) findParent(leaf *Node, rec *Feature) (*Node, error) {
	pid := rec.Attr("Parent")
	if pid == "" {
		return nil, fmt.Errorf("feature: record %s type %q has no Parent attribute", rec.Pos(), rec.Type())
	}
	for n := leaf; n != nil; n = n.Parent {
		if n.Feature.Attr("ID") == pid {
			return n, nil
		}
	}
	return nil, fmt.Errorf("feature: record %s type %q references unknown parent %q", rec.Pos(), rec.Type(), pid)
}

func (gff3Builder) normalize(root *Node) {}

// gtfParentTypes maps each feature type to the type of its expected
// parent.
var gtfParentTypes = map[string]string{
	"transcript":      "gene",
	"exon":            "transcript",
	"CDS":             "transcript",
	"UTR":             "transcript",
	"five_prime_utr":  "transcript",
	"three_prime_utr": "transcript",
	"start_codon":     "transcript",
	"stop_codon":      "transcript",
	"Selenocysteine":  "transcript",
}

// gtfBuilder resolves parents from the fixed type hierarchy and the most
// recently placed node at the appropriate level. Records that do not fit
// yet are queued by the reader and retried.
type gtfBuilder struct{}

func (gtfBuilder) findParent(leaf *Node, rec *Feature) (*Node, error) {
	ptype, ok := gtfParentTypes[rec.Type()]
	if !ok {
		ptype = "transcript"
	}
	for n := leaf; n != nil; n = n.Parent {
		if n.Feature.Type() == ptype {
			return n, nil
		}
	}
	return nil, nil
}

func (gtfBuilder) normalize(root *Node) {
	removeTransAttrsOnGenes(root)
	fixGTFAnnotations(root)
}

// transAttrsOnGenes are transcript-level attributes that GTF dumps leak
// onto gene records.
var transAttrsOnGenes = []string{
	"transcript_id",
	"transcript_type",
	"transcript_name",
	"transcript_status",
	"transcript_support_level",
	"havana_transcript",
}

// removeTransAttrsOnGenes strips transcript-only attributes from the gene
// record.
func removeTransAttrsOnGenes(root *Node) {
	for _, tag := range transAttrsOnGenes {
		root.Feature.DelAttr(tag)
	}
}

// fixGTFAnnotations repairs systematic GTF annotation quirks: empty
// attribute values and exon ids carried by non-exon records.
func fixGTFAnnotations(root *Node) {
	if !root.IsExon() {
		root.Feature.DelAttr("exon_id")
	}
	attrs := root.Feature.FeatAttributes[:0]
	for _, a := range root.Feature.FeatAttributes {
		if a.Value != "" {
			attrs = append(attrs, a)
		}
	}
	root.Feature.FeatAttributes = attrs
	for _, c := range root.Children {
		fixGTFAnnotations(c)
	}
}
