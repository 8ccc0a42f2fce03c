// Command nidc compiles NID source to ASS assembly and, unless told
// otherwise, immediately assembles that listing to a machine-code .out
// file. Grounded on the teacher's main.go flag-handling style and on
// original_source/src/main.rs's compile-then-assemble chaining.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/an0nymoos3/nid-compiler/internal/assembler"
	"github.com/an0nymoos3/nid-compiler/internal/astdump"
	"github.com/an0nymoos3/nid-compiler/internal/compiler"
	"github.com/an0nymoos3/nid-compiler/internal/hwconf"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		showHelp     = flag.Bool("help", false, "Show help information")
		verbose      = flag.Bool("verbose", false, "Print verbose compilation info")
		hardwareConf = flag.String("hardware-conf", "", "Path to a TOML hardware config file")
		stringOutput = flag.Bool("string-output", false, "Write assembled output as a binary-literal text file instead of raw bytes")
		compileOnly  = flag.Bool("compile-only", false, "Stop after emitting the .ass file")
		assembleOnly = flag.Bool("assemble-only", false, "Treat the input as an .ass file and skip compilation")
	)
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	flag.BoolVar(verbose, "v", false, "Print verbose compilation info (shorthand)")
	flag.StringVar(hardwareConf, "hc", "", "Path to a TOML hardware config file (shorthand)")
	flag.BoolVar(stringOutput, "s", false, "Write assembled output as text (shorthand)")
	flag.BoolVar(compileOnly, "c", false, "Stop after emitting the .ass file (shorthand)")
	flag.BoolVar(assembleOnly, "a", false, "Treat the input as an .ass file (shorthand)")

	flag.Parse()

	if *showHelp {
		printHelp()
		return 0
	}

	if *compileOnly && *assembleOnly {
		fmt.Fprintln(os.Stderr, "Error: -c/--compile-only and -a/--assemble-only are mutually exclusive")
		return 1
	}

	if flag.NArg() != 1 {
		printHelp()
		return 1
	}
	filename := flag.Arg(0)

	if *assembleOnly {
		result, err := assembler.Assemble(filename, *stringOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Assembler error:\n%v\n", err)
			return 1
		}
		if *verbose {
			fmt.Printf("Assembled %d words to %s\n", len(result.Words), result.OutputName)
		}
		return 0
	}

	hw, err := hwconf.Load(*hardwareConf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hardware config error:\n%v\n", err)
		return 1
	}
	if *hardwareConf == "" && *verbose {
		fmt.Println("No hardware config file passed! Using default config.")
	}

	compileResult, err := compiler.Compile(filename, hw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compile error:\n%v\n", err)
		return 1
	}
	if *verbose {
		for _, tok := range compileResult.Tokens {
			fmt.Printf("Token: %s\n", tok)
		}
		fmt.Println(astdump.Dump(compileResult.Program))
		fmt.Println("Generated ASS code:")
		for i, line := range compileResult.Lines {
			fmt.Printf("%d | %s\n", i+1, line)
		}
		fmt.Printf("Assembly written to: %s\n", compileResult.OutputName)
	}

	if *compileOnly {
		return 0
	}

	assembleResult, err := assembler.Assemble(compileResult.OutputName, *stringOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembler error:\n%v\n", err)
		return 1
	}
	if *verbose {
		fmt.Printf("Assembled %d words to %s\n", len(assembleResult.Words), assembleResult.OutputName)
	}
	return 0
}

func printHelp() {
	fmt.Println(`nidc [options] <file>

Compiles a .nid source file to ASS assembly and assembles it to machine
code, unless -c or -a narrows the pipeline to one stage.

Options:
  -h, --help                Show this message.
  -v, --verbose              Print verbose compilation info.
  -hc, --hardware-conf path  Load a TOML hardware config (default: built-in defaults).
  -s, --string-output        Write assembled output as a binary-literal text file.
  -c, --compile-only         Stop after emitting the .ass file.
  -a, --assemble-only        Treat <file> as an .ass file and skip compilation.`)
}
