package store

import (
	"errors"
	mathrand2 "math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	b3 "github.com/glycerine/gearcut/hash"
	cv "github.com/glycerine/goconvey/convey"
)

func testChunk(seedByte byte, n int) []byte {
	var seed [32]byte
	seed[0] = seedByte
	generator := mathrand2.NewChaCha8(seed)
	data := make([]byte, n)
	generator.Read(data)
	// make half of it compressible.
	for i := n / 2; i < n; i++ {
		data[i] = 'z'
	}
	return data
}

func Test101_round_trip_every_codec(t *testing.T) {

	for _, codec := range []Codec{CodecNone, CodecZstd, CodecLZ4} {
		cv.Convey("Put then Get returns the same bytes with codec "+codec.String(), t, func() {
			s, err := Open(t.TempDir(), codec)
			cv.So(err, cv.ShouldBeNil)
			defer s.Close()

			data := testChunk(byte(codec)+1, 20000)
			key, fresh, err := s.Put(data)
			cv.So(err, cv.ShouldBeNil)
			cv.So(fresh, cv.ShouldBeTrue)
			cv.So(key, cv.ShouldEqual, b3.Blake3OfBytesString(data))
			cv.So(s.Has(key), cv.ShouldBeTrue)

			got, err := s.Get(key)
			cv.So(err, cv.ShouldBeNil)
			cv.So(string(got), cv.ShouldEqual, string(data))
		})
	}
}

func Test102_second_put_is_deduplicated(t *testing.T) {

	cv.Convey("storing the same chunk twice writes it once", t, func() {
		s, err := Open(t.TempDir(), CodecZstd)
		cv.So(err, cv.ShouldBeNil)
		defer s.Close()

		data := testChunk(7, 5000)
		key1, fresh1, err := s.Put(data)
		cv.So(err, cv.ShouldBeNil)
		key2, fresh2, err := s.Put(data)
		cv.So(err, cv.ShouldBeNil)
		cv.So(fresh1, cv.ShouldBeTrue)
		cv.So(fresh2, cv.ShouldBeFalse)
		cv.So(key2, cv.ShouldEqual, key1)

		// concurrent puts of distinct chunks all land.
		var wg sync.WaitGroup
		keys := make([]string, 8)
		for i := range keys {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k, _, err := s.Put(testChunk(byte(100+i), 3000))
				if err == nil {
					keys[i] = k
				}
			}(i)
		}
		wg.Wait()
		for _, k := range keys {
			cv.So(s.Has(k), cv.ShouldBeTrue)
		}
	})
}

func Test103_objects_keep_their_own_codec(t *testing.T) {

	cv.Convey("a store reopened with another codec still reads old objects", t, func() {
		dir := t.TempDir()
		s, err := Open(dir, CodecLZ4)
		cv.So(err, cv.ShouldBeNil)
		data := testChunk(9, 10000)
		key, _, err := s.Put(data)
		cv.So(err, cv.ShouldBeNil)
		s.Close()

		s2, err := Open(dir, CodecZstd)
		cv.So(err, cv.ShouldBeNil)
		defer s2.Close()
		got, err := s2.Get(key)
		cv.So(err, cv.ShouldBeNil)
		cv.So(string(got), cv.ShouldEqual, string(data))
	})
}

func Test104_missing_bad_and_corrupt_keys(t *testing.T) {

	cv.Convey("Get reports missing, malformed and corrupt objects", t, func() {
		dir := t.TempDir()
		s, err := Open(dir, CodecNone)
		cv.So(err, cv.ShouldBeNil)
		defer s.Close()

		_, err = s.Get(b3.Blake3OfBytesString([]byte("never stored")))
		cv.So(errors.Is(err, ErrNotFound), cv.ShouldBeTrue)

		_, err = s.Get("../../etc/passwd")
		cv.So(errors.Is(err, ErrBadKey), cv.ShouldBeTrue)

		// a shard of ".." would land one level above dir.
		for _, k := range []string{b3.DigestPrefix + "..x", b3.DigestPrefix + ".ab", b3.DigestPrefix + "ab."} {
			_, err = s.path(k)
			cv.So(errors.Is(err, ErrBadKey), cv.ShouldBeTrue)
			_, err = s.Get(k)
			cv.So(errors.Is(err, ErrBadKey), cv.ShouldBeTrue)
			cv.So(s.Has(k), cv.ShouldBeFalse)
		}
		cv.So(s.Has("nope"), cv.ShouldBeFalse)

		data := testChunk(11, 4000)
		key, _, err := s.Put(data)
		cv.So(err, cv.ShouldBeNil)

		// flip one payload byte on disk.
		p, err := s.path(key)
		cv.So(err, cv.ShouldBeNil)
		obj, err := os.ReadFile(p)
		cv.So(err, cv.ShouldBeNil)
		obj[len(obj)-1] ^= 0xff
		cv.So(os.WriteFile(p, obj, 0600), cv.ShouldBeNil)

		_, err = s.Get(key)
		cv.So(errors.Is(err, ErrCorrupt), cv.ShouldBeTrue)
		cv.So(filepath.Dir(filepath.Dir(p)), cv.ShouldEqual, dir)
	})
}

func Test105_parse_codec(t *testing.T) {

	cv.Convey("ParseCodec knows every codec name and rejects others", t, func() {
		for _, codec := range []Codec{CodecNone, CodecZstd, CodecLZ4} {
			got, err := ParseCodec(codec.String())
			cv.So(err, cv.ShouldBeNil)
			cv.So(got, cv.ShouldEqual, codec)
		}
		_, err := ParseCodec("brotli")
		cv.So(errors.Is(err, ErrUnknownCodec), cv.ShouldBeTrue)

		_, err = Open(t.TempDir(), Codec(42))
		cv.So(errors.Is(err, ErrUnknownCodec), cv.ShouldBeTrue)
	})
}
