// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// backmap compares a source assembly's gene annotation against the
// annotation of a target assembly, classifying each source gene by its
// relationship to the target annotation and optionally substituting the
// target copy for genes without an acceptable match.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/io/featio/gff"

	"github.com/genomap/backmap/annotation"
	"github.com/genomap/backmap/feature"
	"github.com/genomap/backmap/report"
)

func main() {
	var (
		srcName       = flag.String("src", "", "Filename for source annotation. Defaults to stdin.")
		styleName     = flag.String("style", "gff3", "Annotation style: gff3 or gtf.")
		targetName    = flag.String("target", "", "Filename for target assembly annotation.")
		targetStyle   = flag.String("targetStyle", "", "Style for target annotation. Defaults to -style.")
		sizesName     = flag.String("chromSizes", "", "Filename for chromosome sizes table.")
		outName       = flag.String("out", "", "Filename for output. Defaults to stdout.")
		minSimilarity = flag.Float64("minSimilarity", 0.25, "Minimum transcript similarity for gene overlap.")
		manualOnly    = flag.Bool("manualOnly", false, "Only manually annotated transcripts vote in similarity.")
		substitute    = flag.Bool("substituteMissing", false, "Replace genes without an accepted match by the target copy.")
		targetVersion = flag.String("targetVersion", "", "Annotation version recorded on substituted genes.")
		reportName    = flag.String("report", "", "Filename for the mapping summary report.")
		help          = flag.Bool("help", false, "Print this usage message.")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	style, err := feature.ParseStyle(*styleName)
	if err != nil {
		log.Fatalf("bad -style: %v", err)
	}
	tStyle := style
	if *targetStyle != "" {
		tStyle, err = feature.ParseStyle(*targetStyle)
		if err != nil {
			log.Fatalf("bad -targetStyle: %v", err)
		}
	}

	var sizes annotation.SizeMap
	if *sizesName != "" {
		f, err := os.Open(*sizesName)
		if err != nil {
			log.Fatalf("could not open %q: %v", *sizesName, err)
		}
		sizes, err = annotation.ReadSizes(f)
		f.Close()
		if err != nil {
			log.Fatalf("failed to read chromosome sizes: %v", err)
		}
	}

	var src *annotation.Set
	if *srcName == "" {
		fmt.Fprintln(os.Stderr, "reading source annotation from stdin.")
		src, err = annotation.Load(gff.NewReader(os.Stdin), style, sizes)
	} else {
		f, ferr := os.Open(*srcName)
		if ferr != nil {
			log.Fatalf("could not open %q: %v", *srcName, ferr)
		}
		fmt.Fprintf(os.Stderr, "reading source annotation from %q.\n", *srcName)
		src, err = annotation.Load(gff.NewReader(f), style, sizes)
		f.Close()
	}
	if err != nil {
		log.Fatalf("failed to read source annotation: %v", err)
	}

	var target *annotation.Set
	if *targetName != "" {
		f, ferr := os.Open(*targetName)
		if ferr != nil {
			log.Fatalf("could not open %q: %v", *targetName, ferr)
		}
		fmt.Fprintf(os.Stderr, "reading target annotation from %q.\n", *targetName)
		target, err = annotation.Load(gff.NewReader(f), tStyle, nil)
		f.Close()
		if err != nil {
			log.Fatalf("failed to read target annotation: %v", err)
		}
	}

	var out *gff.Writer
	if *outName == "" {
		fmt.Fprintln(os.Stderr, "writing annotation to stdout.")
		out = gff.NewWriter(os.Stdout, 60, false)
	} else if of, err := os.Create(*outName); err != nil {
		log.Fatalf("could not create %q: %v", *outName, err)
	} else {
		defer of.Close()
		buf := bufio.NewWriter(of)
		defer buf.Flush()
		out = gff.NewWriter(buf, 60, true)
		fmt.Fprintf(os.Stderr, "writing annotation to %q.\n", *outName)
	}

	sum := report.New()
	result := annotation.New(sizes)
	for _, gene := range src.Genes() {
		status, similarity, matches := classify(gene, target, *minSimilarity, *manualOnly)
		keep := gene
		if target != nil {
			if *substitute && status == feature.TargetLost {
				if t := substituteFor(gene, target); t != nil {
					keep = t.Clone()
					keep.StampSubstitutedMissingTarget(*targetVersion)
				}
			}
			keep.NumMappings = matches
			keep.StampNumMappings()
		}
		keep.SetTargetStatusAll(status)
		keep.StampTargetStatus()
		if err := result.AddGene(keep); err != nil {
			log.Fatalf("failed to add gene: %v", err)
		}
		sum.Add(status, similarity)
	}

	result.Sort()
	if err := result.Write(out); err != nil {
		log.Fatalf("failed to write annotation: %v", err)
	}

	if *reportName != "" {
		f, err := os.Create(*reportName)
		if err != nil {
			log.Fatalf("could not create %q: %v", *reportName, err)
		}
		err = sum.WriteTo(f)
		f.Close()
		if err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote mapping summary to %q.\n", *reportName)
	}
}

// classify determines a source gene's relationship to the target
// annotation: an accepted overlapping gene, a bare interval overlap, or
// nothing. It returns the best similarity among accepted matches and the
// number of accepted matches.
func classify(gene *feature.Node, target *annotation.Set, minSimilarity float64, manualOnly bool) (feature.TargetStatus, float64, int) {
	if target == nil {
		return feature.TargetNA, 0, 0
	}
	matches := target.OverlappingGenes(gene, minSimilarity, manualOnly)
	if len(matches) != 0 {
		var best float64
		for _, m := range matches {
			if s := gene.MaxTranscriptSimilarity(m, manualOnly); s > best {
				best = s
			}
		}
		return feature.TargetOverlap, best, len(matches)
	}
	over := target.OverlappingFeatures(gene.Feature.SeqName, gene.Feature.FeatStart, gene.Feature.FeatEnd)
	if len(over) != 0 {
		return feature.TargetNonOverlap, 0, 0
	}
	return feature.TargetLost, 0, 0
}

// substituteFor finds the target gene to stand in for a lost source gene.
// PAR-ambiguous ids resolve to nothing and are left unsubstituted.
func substituteFor(gene *feature.Node, target *annotation.Set) *feature.Node {
	id := gene.Feature.ID()
	if id == "" {
		return nil
	}
	t := target.FeatureByID(id, "")
	if t == nil || !t.IsGene() {
		return nil
	}
	return t
}
