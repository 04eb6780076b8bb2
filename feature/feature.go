// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature models gene annotation records as trees and tracks what
// happens to each tree when its coordinates are projected onto a different
// genome assembly.
package feature

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
)

// Attribute names stamped onto records before output.
const (
	RemapStatusAttr                   = "remap_status"
	RemapOriginalIDAttr               = "remap_original_id"
	RemapOriginalLocationAttr         = "remap_original_location"
	RemapNumMappingsAttr              = "remap_num_mappings"
	RemapTargetStatusAttr             = "remap_target_status"
	RemapSubstitutedMissingTargetAttr = "remap_substituted_missing_target"
)

// Annotation source column values distinguishing automatic from manual
// annotation.
const (
	sourceAutomatic = "ENSEMBL"
	sourceManual    = "HAVANA"
)

// Kind classifies a record by its type column.
type Kind int

const (
	Other Kind = iota
	Gene
	Transcript
	Exon
)

// KindOf returns the Kind for a type tag.
func KindOf(typ string) Kind {
	switch typ {
	case "gene":
		return Gene
	case "transcript":
		return Transcript
	case "exon":
		return Exon
	}
	return Other
}

// Feature is a single flat annotation record. It owns its copy of the
// underlying GFF record; attribute stamping mutates only that copy.
type Feature struct {
	gff.Feature
	Kind Kind
}

// NewFeature returns a Feature owning a copy of rec.
func NewFeature(rec *gff.Feature) *Feature {
	f := &Feature{Feature: *rec, Kind: KindOf(rec.Feature)}
	f.FeatAttributes = append(gff.Attributes(nil), rec.FeatAttributes...)
	if rec.FeatScore != nil {
		score := *rec.FeatScore
		f.FeatScore = &score
	}
	return f
}

// Type returns the record's type column.
func (f *Feature) Type() string { return f.Feature.Feature }

// Attr returns the value of the named attribute, or "" if it is absent.
func (f *Feature) Attr(tag string) string { return f.FeatAttributes.Get(tag) }

// SetAttr replaces the value of the named attribute, appending the
// attribute if it is absent.
func (f *Feature) SetAttr(tag, value string) {
	for i, a := range f.FeatAttributes {
		if a.Tag == tag {
			f.FeatAttributes[i].Value = value
			return
		}
	}
	f.FeatAttributes = append(f.FeatAttributes, gff.Attribute{Tag: tag, Value: value})
}

// DelAttr removes the named attribute if it is present.
func (f *Feature) DelAttr(tag string) {
	for i, a := range f.FeatAttributes {
		if a.Tag == tag {
			f.FeatAttributes = append(f.FeatAttributes[:i], f.FeatAttributes[i+1:]...)
			return
		}
	}
}

// ID returns the stable id appropriate to the record's kind, or "".
func (f *Feature) ID() string {
	switch f.Kind {
	case Gene:
		return f.Attr("gene_id")
	case Transcript:
		return f.Attr("transcript_id")
	case Exon:
		return f.Attr("exon_id")
	}
	return ""
}

// HavanaID returns the manual-annotation id appropriate to the record's
// kind, or "".
func (f *Feature) HavanaID() string {
	switch f.Kind {
	case Gene:
		return f.Attr("havana_gene")
	case Transcript:
		return f.Attr("havana_transcript")
	}
	return ""
}

// TypeName returns the name appropriate to the record's kind, or "".
func (f *Feature) TypeName() string {
	switch f.Kind {
	case Gene:
		return f.Attr("gene_name")
	case Transcript:
		return f.Attr("transcript_name")
	}
	return ""
}

// Biotype returns the biotype appropriate to the record's kind, or "".
func (f *Feature) Biotype() string {
	switch f.Kind {
	case Gene:
		if bt := f.Attr("gene_type"); bt != "" {
			return bt
		}
		return f.Attr("gene_biotype")
	case Transcript:
		if bt := f.Attr("transcript_type"); bt != "" {
			return bt
		}
		return f.Attr("transcript_biotype")
	}
	return ""
}

// IsAutomatic reports whether the record is an automatic annotation.
func (f *Feature) IsAutomatic() bool { return f.Source == sourceAutomatic }

// IsManual reports whether the record is a manual annotation.
func (f *Feature) IsManual() bool { return f.Source == sourceManual }

// IsPseudogene reports whether the record is a pseudogene annotation,
// excluding polymorphic pseudogenes.
func (f *Feature) IsPseudogene() bool {
	bt := f.Biotype()
	return bt != "polymorphic_pseudogene" && strings.Contains(bt, "pseudogene")
}

// Pos returns the record's location as seqid:start-end.
func (f *Feature) Pos() string {
	return fmt.Sprintf("%s:%d-%d", f.SeqName, f.FeatStart, f.FeatEnd)
}
