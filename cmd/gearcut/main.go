package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	gjson "github.com/goccy/go-json"

	"github.com/glycerine/gearcut"
	"github.com/glycerine/gearcut/progress"
	"github.com/glycerine/gearcut/store"
)

type flags struct {
	cfg *gearcut.Config

	engine    string
	codec     string
	storeDir  string
	json      bool
	bench     bool
	showProg  bool
	verbose   bool
	benchReps int
}

func setFlags(f *flags, fs *flag.FlagSet) {
	c := f.cfg
	fs.IntVar(&c.MinSize, "min", c.MinSize, "min size chunk")
	fs.IntVar(&c.TargetSize, "t", c.TargetSize, "target size chunk")
	fs.IntVar(&c.MaxSize, "max", c.MaxSize, "max size chunk")
	fs.Uint64Var(&c.Seed, "seed", 0, "gear table seed; 0 => the default table")
	fs.StringVar(&f.engine, "engine", "auto", "boundary engine: ref, paired, quad, or auto")
	fs.StringVar(&f.storeDir, "store", "", "if set, write unique chunks into this directory")
	fs.StringVar(&f.codec, "codec", "zstd", "chunk compression for -store: none, zstd, lz4")
	fs.BoolVar(&f.json, "json", false, "print one JSON object per chunk")
	fs.BoolVar(&f.bench, "bench", false, "report the throughput of every engine on each file")
	fs.IntVar(&f.benchReps, "reps", 5, "passes per engine under -bench")
	fs.BoolVar(&f.showProg, "progress", false, "show a progress bar (single file, terminal only)")
	fs.BoolVar(&f.verbose, "v", false, "verbose debug output to stderr")
}

func main() {
	gearcut.ExitIfVersionReq(os.Args)
	f := &flags{cfg: gearcut.DefaultConfig()}

	fs := flag.NewFlagSet("gearcut", flag.ExitOnError)
	setFlags(f, fs)
	fs.Parse(os.Args[1:])

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "usage: gearcut [flags] file...\n")
		fs.PrintDefaults()
		os.Exit(2)
	}
	gearcut.SetVerbose(f.verbose)

	algo, err := gearcut.ParseEngineAlgo(f.engine)
	stopOn(err)
	f.cfg.Engine = algo
	stopOn(f.cfg.Validate())

	if f.verbose {
		alwaysPrintf("cpu: %v", gearcut.CPUSummary())
	}

	if f.bench {
		for _, path := range paths {
			stopOn(benchFile(path, f))
		}
		return
	}

	var st *store.Store
	if f.storeDir != "" {
		codec, err := store.ParseCodec(f.codec)
		stopOn(err)
		st, err = store.Open(f.storeDir, codec)
		stopOn(err)
		defer st.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	var outMut sync.Mutex

	// one stream, one hash state, one goroutine per file.
	sums := make([]*summary, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sums[i], errs[i] = chunkFile(path, f, st, len(paths) == 1, func(rec *chunkRecord) {
				by, err := gjson.Marshal(rec)
				panicOn(err)
				outMut.Lock()
				out.Write(by)
				out.WriteByte('\n')
				outMut.Unlock()
			})
		}(i, path)
	}
	wg.Wait()

	for i, path := range paths {
		if errs[i] != nil {
			out.Flush()
			stopOn(fmt.Errorf("'%v': %w", path, errs[i]))
		}
		if !f.json {
			fmt.Fprintf(out, "%v\n", sums[i])
		}
	}
}

// chunkRecord is the -json output, one per chunk.
type chunkRecord struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
	Length int    `json:"length"`
	Cut    string `json:"cut"`
	Forced bool   `json:"forced,omitempty"`
	Digest string `json:"digest"`
	Fresh  *bool  `json:"fresh,omitempty"`
}

type summary struct {
	path    string
	engine  string
	bytes   int64
	nchunk  int
	nforced int
	nfresh  int
	elap    time.Duration
}

func (s *summary) String() string {
	return fmt.Sprintf("%v: engine=%v; bytes=%v; ncut=%v; forced=%v; stored_new=%v; elap=%v",
		s.path, s.engine, s.bytes, s.nchunk, s.nforced, s.nfresh, s.elap)
}

func chunkFile(path string, f *flags, st *store.Store, showProg bool, emit func(*chunkRecord)) (sum *summary, err error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	fi, err := fd.Stat()
	if err != nil {
		return nil, err
	}

	c, err := gearcut.NewChunker(bufio.NewReaderSize(fd, 1<<20), f.cfg)
	if err != nil {
		return nil, err
	}
	sum = &summary{path: path, engine: c.Engine().Name()}

	var prog *progress.ScanStats
	if showProg && f.showProg && !f.json {
		prog = progress.NewScanStats(fi.Size(), path)
		defer prog.Done()
	}

	t0 := time.Now()
	for {
		chunk, err := c.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		sum.nchunk++
		sum.bytes += int64(chunk.Length)
		if chunk.Forced {
			sum.nforced++
		}

		var fresh *bool
		if st != nil {
			_, isNew, err := st.Put(chunk.Data)
			if err != nil {
				return nil, err
			}
			if isNew {
				sum.nfresh++
			}
			fresh = &isNew
		}
		if f.json {
			emit(&chunkRecord{
				Path:   path,
				Offset: chunk.Offset,
				Length: chunk.Length,
				Cut:    fmt.Sprintf("%016x", chunk.Cut),
				Forced: chunk.Forced,
				Digest: chunk.Digest,
				Fresh:  fresh,
			})
		}
		if prog != nil {
			prog.Update(sum.bytes)
		}
	}
	sum.elap = time.Since(t0)
	return sum, nil
}

// benchFile times a bare boundary scan of the whole file
// with each engine, and checks they all land on the same
// final hash.
func benchFile(path string, f *flags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tab := gearcut.NewTableFromSeed(f.cfg.Seed)
	mask := f.cfg.Mask()

	var want uint64
	for k, algo := range []gearcut.EngineAlgo{gearcut.Reference_Algo, gearcut.Paired_Algo, gearcut.Quad_Algo} {
		eng, err := gearcut.GetEngine(algo, tab)
		if err != nil {
			return err
		}
		var hash uint64
		var ncut int
		t0 := time.Now()
		for rep := 0; rep < f.benchReps; rep++ {
			hash, ncut = 0, 0
			buf := data
			for len(buf) > 0 {
				cut, found := eng.FindBoundary(&hash, buf, mask)
				if !found {
					break
				}
				ncut++
				buf = buf[cut:]
			}
		}
		elap := time.Since(t0)
		if k == 0 {
			want = hash
		} else if hash != want {
			return fmt.Errorf("engine %v ended on hash %#x, reference ended on %#x", eng.Name(), hash, want)
		}
		rate := float64(len(data)*f.benchReps) / elap.Seconds()
		fmt.Printf("%v: %-16v ncut=%v  %v\n", path, eng.Name(), ncut, progress.FormatBytes(rate, false))
	}
	return nil
}
