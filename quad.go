package gearcut

// FindBoundaryQuad gives the same answers as FindBoundary
// while taking four bytes per iteration.
//
// A group (b1, b2, b3, b4) is split into two pairs. Each
// pair's combined weight, scaleAdd1(w1, w2), depends only
// on the table, so both are computed up front. From the
// running hash h,
//
//	h1 = scaleAdd1(h, w1)
//	h2 = scaleAdd2(h, scaleAdd1(w1, w2))
//
// are independent of each other, and h3, h4 follow from
// h2 the same way. That leaves two dependent hash updates
// per four bytes instead of four. Every intermediate is
// exactly the value the one-byte recurrence would have
// held, so each is tested against mask in order.
//
// The len(buf)%4 tail bytes are handed to FindBoundary.
func FindBoundaryQuad(hash *uint64, tab *Table, buf []byte, mask uint64) (cut int, found bool) {
	h := *hash
	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		g := buf[i : i+4 : i+4]

		w1 := tab[g[0]]
		w3 := tab[g[2]]
		w12 := scaleAdd1(w1, tab[g[1]])
		w34 := scaleAdd1(w3, tab[g[3]])

		h1 := scaleAdd1(h, w1)
		h2 := scaleAdd2(h, w12)
		if h1&mask == 0 {
			*hash = h1
			return i + 1, true
		}
		if h2&mask == 0 {
			*hash = h2
			return i + 2, true
		}

		h3 := scaleAdd1(h2, w3)
		h4 := scaleAdd2(h2, w34)
		if h3&mask == 0 {
			*hash = h3
			return i + 3, true
		}
		if h4&mask == 0 {
			*hash = h4
			return i + 4, true
		}
		h = h4
	}
	*hash = h
	if n == len(buf) {
		return 0, false
	}
	cut, found = FindBoundary(hash, tab, buf[n:], mask)
	if found {
		cut += n
	}
	return
}
