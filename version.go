package gearcut

import (
	"fmt"
	"os"
	"runtime/debug"
)

// set at link time, e.g.
// -ldflags "-X github.com/glycerine/gearcut.LAST_GIT_COMMIT_HASH=..."
var LAST_GIT_COMMIT_HASH string
var NEAREST_GIT_TAG string
var GIT_BRANCH string
var GO_VERSION string

func GetCodeVersion(programName string) string {
	return fmt.Sprintf("%s commit: %s / nearest-git-tag: %s / branch: %s / go version: %s / default engine: %v\n",
		programName, LAST_GIT_COMMIT_HASH, NEAREST_GIT_TAG, GIT_BRANCH, GO_VERSION, defaultAlgoForCPU())
}

// ExitIfVersionReq prints the build info and exits
// when -version or --version is among args.
func ExitIfVersionReq(args []string) {
	for _, a := range args {
		if a == "-version" || a == "--version" {
			if bi, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(os.Stderr, "%v version: %+v\n", args[0], bi)
			}
			fmt.Fprintf(os.Stderr, "\n%s\n", GetCodeVersion(args[0]))
			os.Exit(0)
		}
	}
}
