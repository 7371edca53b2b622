package gearcut

import (
	"testing"
)

var benchSink uint64

func benchEngine(b *testing.B, eng Engine) {
	data := randomData(99, 8<<20)
	mask := MaskForTarget(64 << 10)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var h uint64
		buf := data
		for len(buf) > 0 {
			cut, found := eng.FindBoundary(&h, buf, mask)
			if !found {
				break
			}
			buf = buf[cut:]
		}
		benchSink += h
	}
}

func BenchmarkReference(b *testing.B) {
	benchEngine(b, &ReferenceEngine{tab: &DefaultTable})
}

func BenchmarkPaired(b *testing.B) {
	eng, err := GetEngine(Paired_Algo, nil)
	panicOn(err)
	benchEngine(b, eng)
}

func BenchmarkQuad(b *testing.B) {
	eng, err := GetEngine(Quad_Algo, nil)
	panicOn(err)
	benchEngine(b, eng)
}

func BenchmarkChunker(b *testing.B) {
	data := randomData(98, 8<<20)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cuts, err := Cutpoints(data, nil)
		panicOn(err)
		benchSink += uint64(len(cuts))
	}
}
