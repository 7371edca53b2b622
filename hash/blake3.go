package hash

import (
	"sync"

	cristalbase64 "github.com/cristalhq/base64"
	"github.com/glycerine/blake3"
)

// DigestPrefix starts every digest string, naming the
// algorithm and the number of digest bytes encoded.
const DigestPrefix = "blake3.33B-"

// Blake3 is a goroutine safe chunk digester. A Chunker
// or Store holds one and reuses its hasher.
type Blake3 struct {
	mut    sync.Mutex
	hasher *blake3.Hasher
}

// NewBlake3 creates a new Blake3.
func NewBlake3() *Blake3 {
	return &Blake3{
		hasher: blake3.New(64, nil),
	}
}

// Digest264 returns the first 33 bytes (264 bits) of the
// blake3 digest of by.
func (b *Blake3) Digest264(by []byte) (digest []byte) {
	b.mut.Lock()
	b.hasher.Reset()
	b.hasher.Write(by)
	digest = b.hasher.Sum(nil)
	b.mut.Unlock()
	return digest[:33]
}

// DigestString is Digest264 rendered as
// DigestPrefix + base64url.
func (b *Blake3) DigestString(by []byte) string {
	return RawSumBytesToString(b.Digest264(by))
}

// Blake3OfBytes is goroutine safe and lock free, since
// it creates a new hasher every time.
func Blake3OfBytes(by []byte) []byte {
	h := blake3.New(64, nil)
	h.Write(by)
	return h.Sum(nil)
}

// Blake3OfBytesString is Blake3OfBytes as a digest string.
func Blake3OfBytesString(by []byte) string {
	return RawSumBytesToString(Blake3OfBytes(by))
}

// RawSumBytesToString encodes an existing sum (at least
// 33 bytes long).
func RawSumBytesToString(by []byte) string {
	return DigestPrefix + cristalbase64.URLEncoding.EncodeToString(by[:33])
}
