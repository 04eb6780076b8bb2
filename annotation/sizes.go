// Copyright ©2026 The backmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package annotation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SizeMap maps sequence ids to their lengths. It is consulted only when
// emitting sequence-region directives.
type SizeMap map[string]int

// ReadSizes reads a two-column whitespace-separated sequence size table in
// chrom.sizes format. Blank lines and lines starting with # are skipped.
func ReadSizes(r io.Reader) (SizeMap, error) {
	sizes := make(SizeMap)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("annotation: malformed size line %q", line)
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("annotation: bad size for %s: %v", fields[0], err)
		}
		sizes[fields[0]] = size
	}
	return sizes, sc.Err()
}
