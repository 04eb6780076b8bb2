// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report summarises the outcome of an annotation mapping run.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/genomap/backmap/feature"
)

// Summary accumulates per-gene target status counts and the transcript
// similarity of accepted matches.
type Summary struct {
	counts       map[feature.TargetStatus]int
	similarities []float64
	total        int
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{counts: make(map[feature.TargetStatus]int)}
}

// Add records the outcome for one gene. similarity is only recorded for
// genes with an accepted overlap.
func (s *Summary) Add(status feature.TargetStatus, similarity float64) {
	s.counts[status]++
	s.total++
	if status == feature.TargetOverlap {
		s.similarities = append(s.similarities, similarity)
	}
}

// Total returns the number of genes recorded.
func (s *Summary) Total() int { return s.total }

// Count returns the number of genes recorded with status.
func (s *Summary) Count(status feature.TargetStatus) int { return s.counts[status] }

var statusOrder = []feature.TargetStatus{
	feature.TargetNA,
	feature.TargetNew,
	feature.TargetOverlap,
	feature.TargetNonOverlap,
	feature.TargetLost,
}

// WriteTo renders the summary as a table of counts followed by similarity
// statistics for the accepted matches.
func (s *Summary) WriteTo(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "status\tgenes\tfraction")
	for _, status := range statusOrder {
		n := s.counts[status]
		if n == 0 {
			continue
		}
		fmt.Fprintf(tw, "%v\t%d\t%.3f\n", status, n, float64(n)/float64(s.total))
	}
	fmt.Fprintf(tw, "total\t%d\t\n", s.total)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(s.similarities) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nmatch similarity: n=%d mean=%.3f min=%.3f max=%.3f\n",
		len(s.similarities),
		stat.Mean(s.similarities, nil),
		floats.Min(s.similarities),
		floats.Max(s.similarities))
	return err
}
