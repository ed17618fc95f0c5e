// Command exceptional runs a source file through the interpreter.
// Grounded on the teacher's cmd/barn/main.go flag-and-log style.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"exceptional/parser"
	"exceptional/vm"

	_ "exceptional/native"
)

func main() {
	traceEnabled := flag.Bool("trace", false, "Enable execution tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, comma-separated, e.g. 'instruction,raise')")
	permissiveRaise := flag.Bool("permissive-raise", false, "Silently ignore uncaught raises instead of treating them as fatal (reproduces a known bug in the reference implementation)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: exceptional [flags] <source-file>")
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("exceptional: %v", err)
	}

	m, err := vm.NewFromSource(string(source), parser.ParseProgram)
	if err != nil {
		log.Fatalf("exceptional: %v", err)
	}
	m.PermissiveRaise = *permissiveRaise

	if *traceEnabled {
		var filters []string
		if *traceFilter != "" {
			filters = strings.Split(*traceFilter, ",")
			for i := range filters {
				filters[i] = strings.TrimSpace(filters[i])
			}
		}
		m.Tracer.SetEnabled(true)
		m.Tracer.SetFilters(filters)
	}

	m.Run()
}
