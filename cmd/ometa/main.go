/*
Ometa compiles an OMeta grammar file and applies one of its rules to
input given on the command line, or read interactively line by line.

Usage:

	ometa -g FILE [-r RULE] [input ...]

The flags are:

	-g, --grammar FILE
		Path to an OMeta grammar file to compile.

	-r, --rule NAME
		Name of the rule to apply to each input (default "START").

	-c, --config FILE
		Path to a TOML config file supplying defaults for -g, -r and -d.

	-i, --interactive
		Read input lines one at a time from a readline prompt instead
		of taking them as positional arguments.

	-d, --debug
		Enable debug-level logging of the compile and parse lifecycle.
*/
package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/ometa-go/ometa"
)

const (
	// ExitSuccess indicates every input parsed cleanly.
	ExitSuccess = iota

	// ExitUsageError indicates a problem with flags, config, the grammar
	// file's readability, or the input source (no input, no prompt).
	ExitUsageError

	// ExitGrammarError indicates the grammar file itself failed to compile.
	ExitGrammarError

	// ExitParseError indicates at least one input failed to parse.
	ExitParseError
)

var (
	returnCode  int     = ExitSuccess
	grammarFile *string = pflag.StringP("grammar", "g", "", "Path to an OMeta grammar file to compile")
	ruleName    *string = pflag.StringP("rule", "r", "START", "Name of the rule to apply")
	configFile  *string = pflag.StringP("config", "c", "", "Path to a TOML config file")
	interactive *bool   = pflag.BoolP("interactive", "i", false, "Read input lines interactively instead of from arguments")
	debug       *bool   = pflag.BoolP("debug", "d", false, "Enable debug-level logging")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	gf := *grammarFile
	rule := *ruleName
	if *configFile != "" {
		cfg, err := ometa.LoadConfig(*configFile)
		if err != nil {
			pterm.Error.Println(err.Error())
			returnCode = ExitUsageError
			return
		}
		if gf == "" {
			gf = cfg.GrammarFile
		}
		if rule == "START" && cfg.DefaultRule != "" {
			rule = cfg.DefaultRule
		}
		if cfg.Debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if gf == "" {
		pterm.Error.Println("a grammar file is required (-g)")
		returnCode = ExitUsageError
		return
	}

	grammarText, err := os.ReadFile(gf)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitUsageError
		return
	}

	g, err := ometa.Compile(gf, string(grammarText))
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitGrammarError
		return
	}
	apply := ometa.NewWrapper(g).Rule(rule)

	if *interactive {
		runInteractive(apply)
		return
	}

	args := pflag.Args()
	if len(args) == 0 {
		pterm.Error.Println("no input given; pass an argument or use -i")
		returnCode = ExitUsageError
		return
	}
	for _, input := range args {
		runOne(apply, input)
	}
}

func runInteractive(apply func(string) (ometa.Value, error)) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "ometa> "})
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitUsageError
		return
	}
	defer rl.Close()

	pterm.Info.Println("enter input lines; Ctrl-D to quit")
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		runOne(apply, line)
	}
}

func runOne(apply func(string) (ometa.Value, error), input string) {
	result, err := apply(input)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitParseError
		return
	}
	renderResult(input, result)
}

func renderResult(input string, result ometa.Value) {
	root := pterm.TreeNode{Text: fmt.Sprintf("%q", input)}
	root.Children = []pterm.TreeNode{valueNode(result)}
	pterm.DefaultTree.WithRoot(root).Render()
}

func valueNode(v ometa.Value) pterm.TreeNode {
	switch x := v.(type) {
	case ometa.Sequence:
		node := pterm.TreeNode{Text: "sequence"}
		for _, e := range x {
			node.Children = append(node.Children, valueNode(e))
		}
		return node
	case ometa.Tuple:
		node := pterm.TreeNode{Text: "tuple"}
		for _, e := range x {
			node.Children = append(node.Children, valueNode(e))
		}
		return node
	default:
		return pterm.TreeNode{Text: fmt.Sprintf("%v", x)}
	}
}
