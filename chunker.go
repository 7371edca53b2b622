package gearcut

import (
	"bytes"
	"errors"
	"io"

	b3 "github.com/glycerine/gearcut/hash"
)

// Chunk is one content defined piece of a stream.
type Chunk struct {
	Offset int64  // absolute offset in the stream
	Length int    // bytes in Data
	Cut    uint64 // rolling hash after the last byte of the chunk
	Forced bool   // cut by MaxSize with more of the stream to follow
	Digest string // blake3 digest string of Data

	// Data points into the Chunker's buffer and is only
	// valid until the next call to Next or Reset.
	Data []byte
}

// Chunker splits an io.Reader into chunks by running an
// Engine over a buffer of the stream.
//
// One rolling hash runs unbroken across the whole stream;
// it is not reset at cut points. Boundaries found before
// MinSize bytes of the current chunk are skipped over
// (the hash keeps rolling through them), and a chunk that
// reaches MaxSize is cut there.
//
// A Chunker is not safe for concurrent use. Give each
// goroutine its own; they may share a Table.
type Chunker struct {
	cfg  Config
	eng  Engine
	mask uint64
	dig  *b3.Blake3

	r    io.Reader
	hash uint64

	buf    []byte
	beg    int // unconsumed data is buf[beg:end]
	end    int
	offset int64
	eof    bool
}

// NewChunker validates a copy of cfg and builds the engine
// it names over the table for cfg.Seed. A nil cfg means
// DefaultConfig().
func NewChunker(r io.Reader, cfg *Config) (*Chunker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}
	eng, err := GetEngine(c.Engine, NewTableFromSeed(c.Seed))
	if err != nil {
		return nil, err
	}
	return NewChunkerWithEngine(r, &c, eng)
}

// NewChunkerWithEngine is NewChunker with the engine
// supplied by the caller, ignoring cfg.Engine and
// cfg.Seed.
func NewChunkerWithEngine(r io.Reader, cfg *Config, eng Engine) (*Chunker, error) {
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pp("NewChunker: engine=%v min=%v target=%v max=%v mask=%#x",
		eng.Name(), c.MinSize, c.TargetSize, c.MaxSize, c.Mask())
	return &Chunker{
		cfg:  c,
		eng:  eng,
		mask: c.Mask(),
		dig:  b3.NewBlake3(),
		r:    r,
		buf:  make([]byte, c.BufferSize),
	}, nil
}

// Engine reports the engine in use.
func (c *Chunker) Engine() Engine {
	return c.eng
}

// Offset is the stream offset of the next chunk.
func (c *Chunker) Offset() int64 {
	return c.offset
}

// Hash is the current rolling hash state.
func (c *Chunker) Hash() uint64 {
	return c.hash
}

// Reset readies the Chunker for a new stream, keeping its
// engine and buffer.
func (c *Chunker) Reset(r io.Reader) {
	c.r = r
	c.hash = 0
	c.beg = 0
	c.end = 0
	c.offset = 0
	c.eof = false
}

// fill makes sure at least MaxSize bytes are buffered,
// unless the reader is exhausted.
func (c *Chunker) fill() error {
	if c.eof || c.end-c.beg >= c.cfg.MaxSize {
		return nil
	}
	n := copy(c.buf, c.buf[c.beg:c.end])
	c.beg = 0
	c.end = n

	m, err := io.ReadFull(c.r, c.buf[n:])
	c.end += m
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		c.eof = true
		return nil
	}
	return err
}

// Next returns the next chunk, or io.EOF once the stream
// is exhausted.
func (c *Chunker) Next() (*Chunk, error) {
	if err := c.fill(); err != nil {
		return nil, err
	}
	avail := c.buf[c.beg:c.end]
	if len(avail) == 0 {
		return nil, io.EOF
	}
	limit := len(avail)
	if limit > c.cfg.MaxSize {
		limit = c.cfg.MaxSize
	}

	pos := 0
	forced := false
	for {
		cut, found := c.eng.FindBoundary(&c.hash, avail[pos:limit], c.mask)
		if !found {
			pos = limit
			// a stream that simply ends here was not forced.
			forced = limit == c.cfg.MaxSize && (!c.eof || len(avail) > limit)
			break
		}
		pos += cut
		if pos >= c.cfg.MinSize {
			break
		}
	}

	data := avail[:pos]
	chunk := &Chunk{
		Offset: c.offset,
		Length: pos,
		Cut:    c.hash,
		Forced: forced,
		Digest: c.dig.DigestString(data),
		Data:   data,
	}
	c.beg += pos
	c.offset += int64(pos)
	return chunk, nil
}

// Cutpoints returns the end offset of every chunk of data,
// the last always being len(data).
func Cutpoints(data []byte, cfg *Config) (cuts []int, err error) {
	c, err := NewChunker(bytes.NewReader(data), cfg)
	if err != nil {
		return nil, err
	}
	for {
		chunk, err := c.Next()
		if err == io.EOF {
			return cuts, nil
		}
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, int(chunk.Offset)+chunk.Length)
	}
}
