package gearcut

import (
	"errors"
	"fmt"
	"strings"
)

// Engine finds the next content boundary in buf, advancing
// the caller's rolling hash. All engines return identical
// results for identical inputs; they differ only in speed.
type Engine interface {
	// Name identifies the engine in logs and benchmarks.
	Name() string

	// FindBoundary has the contract of the package-level
	// FindBoundary, with the tables bound at construction.
	FindBoundary(hash *uint64, buf []byte, mask uint64) (cut int, found bool)
}

// compile time checks
var _ Engine = &ReferenceEngine{}
var _ Engine = &PairedEngine{}
var _ Engine = &QuadEngine{}

type EngineAlgo int

const (
	Auto_Algo      EngineAlgo = 0
	Reference_Algo EngineAlgo = 1
	Paired_Algo    EngineAlgo = 2
	Quad_Algo      EngineAlgo = 3
)

var ErrUnknownEngine = errors.New("unknown engine; want one of ref, paired, quad, auto")

func (a EngineAlgo) String() string {
	switch a {
	case Auto_Algo:
		return "auto"
	case Reference_Algo:
		return "ref"
	case Paired_Algo:
		return "paired"
	case Quad_Algo:
		return "quad"
	}
	return fmt.Sprintf("EngineAlgo(%d)", int(a))
}

// ParseEngineAlgo maps a flag or environment value to an
// EngineAlgo. The empty string means Auto_Algo.
func ParseEngineAlgo(s string) (EngineAlgo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto_Algo, nil
	case "ref", "reference", "scalar":
		return Reference_Algo, nil
	case "paired", "pair", "2":
		return Paired_Algo, nil
	case "quad", "4":
		return Quad_Algo, nil
	}
	return Auto_Algo, fmt.Errorf("%w: got '%v'", ErrUnknownEngine, s)
}

// GetEngine builds the chosen engine over tab. Auto_Algo
// defers to SelectEngine.
func GetEngine(choice EngineAlgo, tab *Table) (eng Engine, err error) {
	if tab == nil {
		tab = &DefaultTable
	}
	switch choice {
	case Auto_Algo:
		eng = SelectEngine(tab)
	case Reference_Algo:
		eng = NewReferenceEngine(tab)
	case Paired_Algo:
		var paired *PairedEngine
		paired, err = NewPairedEngine(tab, NewCompanionTable(tab))
		if err == nil {
			eng = paired
		}
	case Quad_Algo:
		eng = NewQuadEngine(tab)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownEngine, choice)
	}
	return
}

// ReferenceEngine binds a Table to FindBoundary.
type ReferenceEngine struct {
	tab *Table
}

func NewReferenceEngine(tab *Table) *ReferenceEngine {
	return &ReferenceEngine{tab: tab}
}

func (e *ReferenceEngine) Name() string {
	return "gear-ref-1x"
}

func (e *ReferenceEngine) FindBoundary(hash *uint64, buf []byte, mask uint64) (int, bool) {
	return FindBoundary(hash, e.tab, buf, mask)
}

// PairedEngine binds a Table and its companion to
// FindBoundaryPaired.
type PairedEngine struct {
	tab  *Table
	comp *CompanionTable
}

// NewPairedEngine checks that comp was derived from tab.
// That is the only time the relation is checked.
func NewPairedEngine(tab *Table, comp *CompanionTable) (*PairedEngine, error) {
	if err := VerifyCompanion(tab, comp); err != nil {
		return nil, err
	}
	return &PairedEngine{tab: tab, comp: comp}, nil
}

func (e *PairedEngine) Name() string {
	return "gear-paired-2x"
}

func (e *PairedEngine) FindBoundary(hash *uint64, buf []byte, mask uint64) (int, bool) {
	return FindBoundaryPaired(hash, e.tab, e.comp, buf, mask)
}

// QuadEngine binds a Table to FindBoundaryQuad.
type QuadEngine struct {
	tab *Table
}

func NewQuadEngine(tab *Table) *QuadEngine {
	return &QuadEngine{tab: tab}
}

func (e *QuadEngine) Name() string {
	return "gear-quad-4x"
}

func (e *QuadEngine) FindBoundary(hash *uint64, buf []byte, mask uint64) (int, bool) {
	return FindBoundaryQuad(hash, e.tab, buf, mask)
}
