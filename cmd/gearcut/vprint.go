package main

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"time"

	"4d63.com/tz"
)

var utcTz *time.Location

func init() {
	var err error
	utcTz, err = tz.LoadLocation("UTC")
	panicOn(err)
}

const rfc3339NanoNumericTZ0pad = "2006-01-02T15:04:05.000000000-07:00"

func alwaysPrintf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "\n%s %s ", fileLine(2), time.Now().In(utcTz).Format(rfc3339NanoNumericTZ0pad))
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

func fileLine(depth int) string {
	_, fileName, fileLine, ok := runtime.Caller(depth)
	var s string
	if ok {
		s = fmt.Sprintf("%s:%d", path.Base(fileName), fileLine)
	} else {
		s = ""
	}
	return s
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}

func stopOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", fileLine(2), err.Error())
	os.Exit(1)
}
