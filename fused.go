package gearcut

// fusedScaleAdd computes b + a*k with 64-bit wraparound.
// scaleAdd1 and scaleAdd2 below are the k == 2 and k == 4
// cases written as shifts; the compiler turns each into a
// single LEA on amd64 and an add with shifted operand on
// arm64. The tests hold them equal to this form.
func fusedScaleAdd(a, b, k uint64) uint64 {
	return b + a*k
}

// scaleAdd1 is one gear step: a is the running hash (or
// a partial weight) and b the weight to fold in.
func scaleAdd1(a, b uint64) uint64 {
	return b + a<<1
}

// scaleAdd2 advances a by two gear steps at once, given
// the combined weight b == scaleAdd1(w1, w2).
func scaleAdd2(a, b uint64) uint64 {
	return b + a<<2
}
