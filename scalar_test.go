package gearcut

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test010_all_ones_table_never_cuts_on_mask_one(t *testing.T) {

	cv.Convey("with every weight 1, hash 0 and mask 1, the hash stays odd and no byte cuts", t, func() {
		var ones Table
		for i := range ones {
			ones[i] = 1
		}
		for _, eng := range allEngines(&ones) {
			for n := 1; n <= 9; n++ {
				h := uint64(0)
				cut, found := eng.FindBoundary(&h, make([]byte, n), 1)
				cv.So(found, cv.ShouldBeFalse)
				cv.So(cut, cv.ShouldEqual, 0)
				cv.So(h, cv.ShouldEqual, uint64(1)<<n-1)
			}
			h := uint64(0)
			cut, found := eng.FindBoundary(&h, nil, 1)
			cv.So(found, cv.ShouldBeFalse)
			cv.So(cut, cv.ShouldEqual, 0)
			cv.So(h, cv.ShouldEqual, uint64(0))
		}
	})

	cv.Convey("with every weight 2, hash 0 and mask 1, any non-empty buffer cuts at 1", t, func() {
		var twos Table
		for i := range twos {
			twos[i] = 2
		}
		for _, eng := range allEngines(&twos) {
			for n := 1; n <= 9; n++ {
				h := uint64(0)
				cut, found := eng.FindBoundary(&h, make([]byte, n), 1)
				cv.So(found, cv.ShouldBeTrue)
				cv.So(cut, cv.ShouldEqual, 1)
				cv.So(h, cv.ShouldEqual, uint64(2))
			}
			h := uint64(0)
			cut, found := eng.FindBoundary(&h, nil, 1)
			cv.So(found, cv.ShouldBeFalse)
			cv.So(cut, cv.ShouldEqual, 0)
		}
	})
}

func Test011_mask_extremes(t *testing.T) {

	cv.Convey("mask 0 matches on the first byte, and the all-ones mask only on a zero hash", t, func() {
		data := randomData(11, 64)
		for _, eng := range allEngines(&DefaultTable) {
			h := uint64(12345)
			cut, found := eng.FindBoundary(&h, data, 0)
			cv.So(found, cv.ShouldBeTrue)
			cv.So(cut, cv.ShouldEqual, 1)
			cv.So(h, cv.ShouldEqual, uint64(12345)<<1+DefaultTable[data[0]])
		}

		// choose the start hash so the first step lands on 0:
		// 0 == h<<1 + w  <=>  h<<1 == -w, needs w even.
		var tab Table
		for i := range tab {
			tab[i] = uint64(i+1) << 1
		}
		buf := []byte{7, 8, 9, 10, 11}
		for _, eng := range allEngines(&tab) {
			h := (-tab[7]) >> 1
			cut, found := eng.FindBoundary(&h, buf, ^uint64(0))
			cv.So(found, cv.ShouldBeTrue)
			cv.So(cut, cv.ShouldEqual, 1)
			cv.So(h, cv.ShouldEqual, uint64(0))

			// from a hash that never hits zero over buf, no cut.
			h = 1
			_, found = eng.FindBoundary(&h, buf, ^uint64(0))
			cv.So(found, cv.ShouldBeFalse)
		}
	})
}

func Test012_reference_recurrence_by_hand(t *testing.T) {

	cv.Convey("FindBoundary applies hash = hash<<1 + tab[b] with wraparound", t, func() {
		var tab Table
		tab['a'] = 1
		tab['b'] = 1 << 63
		tab['c'] = 3

		h := uint64(1) << 63
		_, found := FindBoundary(&h, &tab, []byte("abc"), ^uint64(0)>>1)
		// a: (1<<63)<<1 + 1 = 1
		// b: 1<<1 + 1<<63   = 1<<63 | 2
		// c: (1<<63|2)<<1+3 = 7
		cv.So(found, cv.ShouldBeFalse)
		cv.So(h, cv.ShouldEqual, uint64(7))

		// mask 1 wants an even hash: "b" gives the first one.
		h = uint64(1) << 63
		cut, found := FindBoundary(&h, &tab, []byte("abc"), 1)
		cv.So(found, cv.ShouldBeTrue)
		cv.So(cut, cv.ShouldEqual, 2)
		cv.So(h, cv.ShouldEqual, uint64(1)<<63|2)

		// mask 2 wants bit 1 clear: 1 already qualifies.
		h = 0
		cut, found = FindBoundary(&h, &tab, []byte("aab"), 2)
		cv.So(found, cv.ShouldBeTrue)
		cv.So(cut, cv.ShouldEqual, 1)
		cv.So(h, cv.ShouldEqual, uint64(1))
	})
}
