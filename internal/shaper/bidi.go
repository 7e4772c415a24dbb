package shaper

import (
	"golang.org/x/text/unicode/bidi"
)

const maxDepth = 125

// classOf returns the Bidi_Class of r. Formatting characters are mapped
// explicitly so the explicit-level pass never depends on table details.
func classOf(r rune) bidi.Class {
	switch r {
	case lrm:
		return bidi.L
	case rlm:
		return bidi.R
	case alm:
		return bidi.AL
	case lre:
		return bidi.LRE
	case rle:
		return bidi.RLE
	case pdf:
		return bidi.PDF
	case lro:
		return bidi.LRO
	case rlo:
		return bidi.RLO
	case lri:
		return bidi.LRI
	case rli:
		return bidi.RLI
	case fsi:
		return bidi.FSI
	case pdi:
		return bidi.PDI
	}
	p, _ := bidi.LookupRune(r)
	return p.Class()
}

func isIsolateInitiator(c bidi.Class) bool {
	return c == bidi.LRI || c == bidi.RLI || c == bidi.FSI
}

func isIsolateControl(c bidi.Class) bool {
	return isIsolateInitiator(c) || c == bidi.PDI
}

func isRemovedByX9(c bidi.Class) bool {
	switch c {
	case bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF, bidi.BN:
		return true
	}
	return false
}

func isNeutralOrIsolate(c bidi.Class) bool {
	switch c {
	case bidi.B, bidi.S, bidi.WS, bidi.ON:
		return true
	}
	return isIsolateControl(c)
}

func directionOf(level int8) bidi.Class {
	if level%2 == 1 {
		return bidi.R
	}
	return bidi.L
}

// reorderLine runs the algorithm over one line and returns it in visual
// order without control characters.
func reorderLine(line []rune, dir Direction) []rune {
	n := len(line)
	if n == 0 {
		return line
	}

	orig := make([]bidi.Class, n)
	for i, r := range line {
		orig[i] = classOf(r)
	}

	match := matchIsolates(orig)
	para := paragraphLevel(orig, match, dir)
	types, levels, removed := resolveExplicit(orig, match, para)

	for _, seq := range isolatingRunSequences(orig, levels, removed, match) {
		resolveSequence(seq, orig, types, levels, removed, para)
	}

	for i := range levels {
		if removed[i] {
			if i == 0 {
				levels[i] = para
			} else {
				levels[i] = levels[i-1]
			}
		}
	}

	resetWhitespace(orig, levels, removed, para)
	return visualOrder(line, levels)
}

// matchIsolates pairs each isolate initiator with its matching PDI (BD9).
// Unmatched positions hold -1.
func matchIsolates(orig []bidi.Class) []int {
	match := make([]int, len(orig))
	for i := range match {
		match[i] = -1
	}
	var open []int
	for i, c := range orig {
		switch {
		case isIsolateInitiator(c):
			open = append(open, i)
		case c == bidi.PDI && len(open) > 0:
			j := open[len(open)-1]
			open = open[:len(open)-1]
			match[j] = i
			match[i] = j
		}
	}
	return match
}

// firstStrong returns 0 for L, 1 for R or AL and -1 when orig[from:to] holds
// no strong character outside nested isolates.
func firstStrong(orig []bidi.Class, match []int, from, to int) int {
	for i := from; i < to; i++ {
		switch c := orig[i]; {
		case c == bidi.L:
			return 0
		case c == bidi.R || c == bidi.AL:
			return 1
		case isIsolateInitiator(c):
			if match[i] < 0 {
				return -1
			}
			i = match[i]
		}
	}
	return -1
}

func paragraphLevel(orig []bidi.Class, match []int, dir Direction) int8 {
	switch dir {
	case LeftToRight:
		return 0
	case RightToLeft:
		return 1
	}
	if firstStrong(orig, match, 0, len(orig)) == 1 {
		return 1
	}
	return 0
}

type embedding struct {
	level    int8
	override bidi.Class
	isolate  bool
}

const noOverride = bidi.ON

// resolveExplicit applies rules X1 to X9. It returns the working types, the
// explicit embedding levels and which positions X9 removes.
func resolveExplicit(orig []bidi.Class, match []int, para int8) ([]bidi.Class, []int8, []bool) {
	n := len(orig)
	types := make([]bidi.Class, n)
	copy(types, orig)
	levels := make([]int8, n)
	removed := make([]bool, n)

	stack := []embedding{{level: para, override: noOverride}}
	overflowIsolates, overflowEmbeddings, validIsolates := 0, 0, 0

	nextLevel := func(rtl bool) int8 {
		top := stack[len(stack)-1].level
		if rtl {
			return (top + 1) | 1
		}
		return (top + 2) &^ 1
	}
	applyOverride := func(i int) {
		top := stack[len(stack)-1]
		levels[i] = top.level
		if top.override != noOverride {
			types[i] = top.override
		}
	}

	for i, c := range orig {
		switch c {
		case bidi.RLE, bidi.LRE, bidi.RLO, bidi.LRO:
			removed[i] = true
			levels[i] = stack[len(stack)-1].level
			level := nextLevel(c == bidi.RLE || c == bidi.RLO)
			if level <= maxDepth && overflowIsolates == 0 && overflowEmbeddings == 0 {
				override := noOverride
				switch c {
				case bidi.RLO:
					override = bidi.R
				case bidi.LRO:
					override = bidi.L
				}
				stack = append(stack, embedding{level: level, override: override})
			} else if overflowIsolates == 0 {
				overflowEmbeddings++
			}

		case bidi.RLI, bidi.LRI, bidi.FSI:
			applyOverride(i)
			rtl := c == bidi.RLI
			if c == bidi.FSI {
				end := match[i]
				if end < 0 {
					end = n
				}
				rtl = firstStrong(orig, match, i+1, end) == 1
			}
			level := nextLevel(rtl)
			if level <= maxDepth && overflowIsolates == 0 && overflowEmbeddings == 0 {
				validIsolates++
				stack = append(stack, embedding{level: level, override: noOverride, isolate: true})
			} else {
				overflowIsolates++
			}

		case bidi.PDI:
			switch {
			case overflowIsolates > 0:
				overflowIsolates--
			case validIsolates > 0:
				overflowEmbeddings = 0
				for !stack[len(stack)-1].isolate {
					stack = stack[:len(stack)-1]
				}
				stack = stack[:len(stack)-1]
				validIsolates--
			}
			applyOverride(i)

		case bidi.PDF:
			removed[i] = true
			levels[i] = stack[len(stack)-1].level
			switch {
			case overflowIsolates > 0:
			case overflowEmbeddings > 0:
				overflowEmbeddings--
			case !stack[len(stack)-1].isolate && len(stack) >= 2:
				stack = stack[:len(stack)-1]
			}

		case bidi.B:
			levels[i] = para

		case bidi.BN:
			removed[i] = true
			levels[i] = stack[len(stack)-1].level

		default:
			applyOverride(i)
		}
	}
	return types, levels, removed
}

// isolatingRunSequences splits the line into level runs (X10) and chains runs
// joined by a matched isolate initiator and PDI.
func isolatingRunSequences(orig []bidi.Class, levels []int8, removed []bool, match []int) [][]int {
	var runs [][]int
	var current []int
	for i := range orig {
		if removed[i] {
			continue
		}
		if current != nil && levels[i] != levels[current[0]] {
			runs = append(runs, current)
			current = nil
		}
		current = append(current, i)
	}
	if current != nil {
		runs = append(runs, current)
	}

	startsAt := make(map[int]int, len(runs))
	for k, run := range runs {
		startsAt[run[0]] = k
	}

	var sequences [][]int
	for _, run := range runs {
		first := run[0]
		if orig[first] == bidi.PDI && match[first] >= 0 {
			continue
		}
		seq := append([]int(nil), run...)
		for {
			last := seq[len(seq)-1]
			if !isIsolateInitiator(orig[last]) || match[last] < 0 {
				break
			}
			k, ok := startsAt[match[last]]
			if !ok {
				break
			}
			seq = append(seq, runs[k]...)
		}
		sequences = append(sequences, seq)
	}
	return sequences
}

func levelBefore(i int, levels []int8, removed []bool, para int8) int8 {
	for j := i - 1; j >= 0; j-- {
		if !removed[j] {
			return levels[j]
		}
	}
	return para
}

func levelAfter(i int, levels []int8, removed []bool, para int8) int8 {
	for j := i + 1; j < len(levels); j++ {
		if !removed[j] {
			return levels[j]
		}
	}
	return para
}

func maxLevel(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

// resolveSequence applies the weak (W1-W7), neutral (N1, N2) and implicit
// (I1, I2) rules to one isolating run sequence.
func resolveSequence(seq []int, orig, types []bidi.Class, levels []int8, removed []bool, para int8) {
	level := levels[seq[0]]
	sos := directionOf(maxLevel(level, levelBefore(seq[0], levels, removed, para)))

	last := seq[len(seq)-1]
	next := para
	if !isIsolateInitiator(orig[last]) {
		next = levelAfter(last, levels, removed, para)
	}
	eos := directionOf(maxLevel(level, next))

	at := func(k int) bidi.Class { return types[seq[k]] }
	set := func(k int, c bidi.Class) { types[seq[k]] = c }

	// W1
	for k := range seq {
		if at(k) != bidi.NSM {
			continue
		}
		switch {
		case k == 0:
			set(k, sos)
		case isIsolateControl(at(k - 1)):
			set(k, bidi.ON)
		default:
			set(k, at(k-1))
		}
	}

	// W2, W3
	strong := sos
	for k := range seq {
		switch c := at(k); c {
		case bidi.L, bidi.R, bidi.AL:
			strong = c
		case bidi.EN:
			if strong == bidi.AL {
				set(k, bidi.AN)
			}
		}
	}
	for k := range seq {
		if at(k) == bidi.AL {
			set(k, bidi.R)
		}
	}

	// W4
	for k := 1; k < len(seq)-1; k++ {
		prev, c, following := at(k-1), at(k), at(k+1)
		switch {
		case c == bidi.ES && prev == bidi.EN && following == bidi.EN:
			set(k, bidi.EN)
		case c == bidi.CS && prev == following && (prev == bidi.EN || prev == bidi.AN):
			set(k, prev)
		}
	}

	// W5
	for k := 0; k < len(seq); {
		if at(k) != bidi.ET {
			k++
			continue
		}
		end := k
		for end < len(seq) && at(end) == bidi.ET {
			end++
		}
		if (k > 0 && at(k-1) == bidi.EN) || (end < len(seq) && at(end) == bidi.EN) {
			for j := k; j < end; j++ {
				set(j, bidi.EN)
			}
		}
		k = end
	}

	// W6
	for k := range seq {
		switch at(k) {
		case bidi.ES, bidi.ET, bidi.CS:
			set(k, bidi.ON)
		}
	}

	// W7
	strong = sos
	for k := range seq {
		switch c := at(k); c {
		case bidi.L, bidi.R:
			strong = c
		case bidi.EN:
			if strong == bidi.L {
				set(k, bidi.L)
			}
		}
	}

	// N1, N2
	embeddingDir := directionOf(level)
	strongDir := func(c bidi.Class) bidi.Class {
		if c == bidi.L {
			return bidi.L
		}
		return bidi.R
	}
	for k := 0; k < len(seq); {
		if !isNeutralOrIsolate(at(k)) {
			k++
			continue
		}
		end := k
		for end < len(seq) && isNeutralOrIsolate(at(end)) {
			end++
		}
		before, after := sos, eos
		if k > 0 {
			before = strongDir(at(k - 1))
		}
		if end < len(seq) {
			after = strongDir(at(end))
		}
		resolved := embeddingDir
		if before == after {
			resolved = before
		}
		for j := k; j < end; j++ {
			set(j, resolved)
		}
		k = end
	}

	// I1, I2
	for _, i := range seq {
		c := types[i]
		if level%2 == 0 {
			switch c {
			case bidi.R:
				levels[i]++
			case bidi.AN, bidi.EN:
				levels[i] += 2
			}
			continue
		}
		switch c {
		case bidi.L, bidi.EN, bidi.AN:
			levels[i]++
		}
	}
}

// resetWhitespace applies L1: separators and trailing whitespace take the
// paragraph level.
func resetWhitespace(orig []bidi.Class, levels []int8, removed []bool, para int8) {
	trailing := true
	for i := len(orig) - 1; i >= 0; i-- {
		c := orig[i]
		switch {
		case c == bidi.B || c == bidi.S:
			levels[i] = para
			trailing = true
		case trailing && (c == bidi.WS || isIsolateControl(c) || removed[i]):
			levels[i] = para
		default:
			trailing = false
		}
	}
}

// visualOrder applies L2 reversal and L4 mirroring, dropping control
// characters.
func visualOrder(line []rune, levels []int8) []rune {
	n := len(line)
	order := make([]int, n)
	var highest int8
	lowestOdd := int8(maxDepth + 2)
	for i, l := range levels {
		order[i] = i
		if l > highest {
			highest = l
		}
		if odd := l | 1; odd < lowestOdd {
			lowestOdd = odd
		}
	}

	for level := highest; level >= lowestOdd; level-- {
		for i := 0; i < n; {
			if levels[order[i]] < level {
				i++
				continue
			}
			j := i
			for j < n && levels[order[j]] >= level {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				order[a], order[b] = order[b], order[a]
			}
			i = j
		}
	}

	out := make([]rune, 0, n)
	for _, idx := range order {
		r := line[idx]
		if isControl(r) {
			continue
		}
		if levels[idx]%2 == 1 {
			r = mirror(r)
		}
		out = append(out, r)
	}
	return out
}
