package hash

import (
	"strings"
	"sync"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001_digest_string_forms_agree(t *testing.T) {

	cv.Convey("the locked hasher and the one-shot helper give the same digest string", t, func() {
		b3 := NewBlake3()
		data := []byte("hello world!")

		s1 := b3.DigestString(data)
		s2 := Blake3OfBytesString(data)
		cv.So(s1, cv.ShouldEqual, s2)
		cv.So(strings.HasPrefix(s1, DigestPrefix), cv.ShouldBeTrue)

		// 33 bytes is 44 base64 characters, no padding.
		cv.So(len(s1), cv.ShouldEqual, len(DigestPrefix)+44)

		// reuse must not leak state from the previous input.
		cv.So(b3.DigestString([]byte("other")), cv.ShouldNotEqual, s1)
		cv.So(b3.DigestString(data), cv.ShouldEqual, s1)
	})
}

func Test002_digest_is_goroutine_safe(t *testing.T) {

	cv.Convey("concurrent DigestString calls on one Blake3 all agree with the lock free form", t, func() {
		b3 := NewBlake3()
		inputs := make([][]byte, 16)
		for i := range inputs {
			inputs[i] = []byte(strings.Repeat(string(rune('a'+i)), 1000+i))
		}
		got := make([]string, len(inputs))
		var wg sync.WaitGroup
		for i := range inputs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got[i] = b3.DigestString(inputs[i])
			}(i)
		}
		wg.Wait()
		for i := range inputs {
			cv.So(got[i], cv.ShouldEqual, Blake3OfBytesString(inputs[i]))
		}
	})
}
