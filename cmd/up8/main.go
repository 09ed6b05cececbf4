// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/up8/harness"
	"github.com/ezrec/up8/proc"
)

func main() {
	var trace string
	var dump bool
	var verbose bool

	flag.StringVar(&trace, "t", "-", "Trace output")
	flag.BoolVar(&dump, "d", false, "Dump engine state after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected a single stimulus file, got: %v", os.Args[0], flag.Args())
	}

	name := flag.Arg(0)
	inf, err := os.Open(name)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}
	defer inf.Close()

	har := harness.NewHarness()
	har.Verbose = verbose

	asm := &proc.Assembler{}
	for key, value := range har.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}
	har.Program = prog

	if trace == "-" {
		har.Trace.Output = os.Stdout
	} else if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			log.Fatalf("%v: %v", trace, err)
		}
		defer ouf.Close()
		har.Trace.Output = ouf
	}

	err = har.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = har.Run()
	if err != nil {
		log.Fatal(err)
	}

	if dump {
		err = har.Trace.Dump(os.Stdout, har.Proc)
		if err != nil {
			log.Fatal(err)
		}
	}
}
