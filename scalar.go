package gearcut

// FindBoundary is the one-byte-at-a-time gear recurrence
//
//	hash = hash<<1 + tab[b]   (mod 2^64)
//
// and the reference every other engine must agree with.
//
// It stops at the first byte after which hash&mask == 0
// and returns the number of bytes of buf consumed to
// get there (1-based) with found true. If no byte of buf
// qualifies, all of buf has been consumed and it returns
// (0, false); the caller should keep feeding bytes using
// the same *hash.
//
// Only *hash is written. It is the caller's to own; do
// not share one hash between goroutines.
func FindBoundary(hash *uint64, tab *Table, buf []byte, mask uint64) (cut int, found bool) {
	h := *hash
	for i, b := range buf {
		h = (h << 1) + tab[b]
		if h&mask == 0 {
			*hash = h
			return i + 1, true
		}
	}
	*hash = h
	return 0, false
}
