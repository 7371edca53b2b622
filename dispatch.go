package gearcut

import (
	"fmt"
	"os"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/templexxx/cpu"
)

// EngineEnvVar, when set to ref, paired or quad,
// overrides the CPU based choice made by SelectEngine.
const EngineEnvVar = "GEARCUT_ENGINE"

var (
	x86HasAVX2   = cpu.X86.HasAVX2
	arm64HasSIMD = cpuid.CPU.Supports(cpuid.ASIMD)
)

// SelectEngine picks the engine expected to run fastest
// here. The answer only affects throughput: all engines
// find the same boundaries.
//
// AVX2 on amd64 and ASIMD on arm64 select the quad
// engine. Everything else gets the paired engine.
func SelectEngine(tab *Table) Engine {
	if tab == nil {
		tab = &DefaultTable
	}
	choice := defaultAlgoForCPU()
	if env := os.Getenv(EngineEnvVar); env != "" {
		algo, err := ParseEngineAlgo(env)
		if err != nil || algo == Auto_Algo {
			alwaysPrintf("ignoring %v='%v': %v", EngineEnvVar, env, err)
		} else {
			choice = algo
		}
	}
	eng, err := GetEngine(choice, tab)
	panicOn(err)
	pp("SelectEngine: %v on %v", eng.Name(), CPUSummary())
	return eng
}

func defaultAlgoForCPU() EngineAlgo {
	switch runtime.GOARCH {
	case "amd64":
		if x86HasAVX2 {
			return Quad_Algo
		}
	case "arm64":
		if arm64HasSIMD {
			return Quad_Algo
		}
	}
	return Paired_Algo
}

// CPUSummary describes what SelectEngine saw.
func CPUSummary() string {
	return fmt.Sprintf("%v/%v '%v' (cores=%v avx2=%v asimd=%v) => %v",
		runtime.GOOS, runtime.GOARCH, cpuid.CPU.BrandName,
		cpuid.CPU.PhysicalCores, x86HasAVX2, arm64HasSIMD, defaultAlgoForCPU())
}
