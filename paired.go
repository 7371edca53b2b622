package gearcut

// FindBoundaryPaired gives the same answers as FindBoundary
// but takes two bytes per step, using the companion table
// comp (which must come from NewCompanionTable(tab)).
//
// For a pair (b1, b2) starting from h, the first step's
// value shifted once more is
//
//	(h<<1 + tab[b1])<<1 == h<<2 + comp[b1]
//
// so one shift and one add land us halfway into the second
// step. A cut after b1 alone shows up as that value
// anded with mask<<1 being zero. Bit 63 of mask falls off
// in mask<<1, so masks with bit 63 set go through
// FindBoundary instead.
func FindBoundaryPaired(hash *uint64, tab *Table, comp *CompanionTable, buf []byte, mask uint64) (cut int, found bool) {
	if mask>>63 == 1 {
		return FindBoundary(hash, tab, buf, mask)
	}
	maskLS := mask << 1

	h := *hash
	n := len(buf) &^ 1
	for i := 0; i < n; i += 2 {
		pair := buf[i : i+2 : i+2]
		orig := h
		h = (orig << 2) + comp[pair[0]]
		if h&maskLS == 0 {
			*hash = (orig << 1) + tab[pair[0]]
			return i + 1, true
		}
		h += tab[pair[1]]
		if h&mask == 0 {
			*hash = h
			return i + 2, true
		}
	}
	if n < len(buf) {
		h = (h << 1) + tab[buf[n]]
		if h&mask == 0 {
			*hash = h
			return len(buf), true
		}
	}
	*hash = h
	return 0, false
}
