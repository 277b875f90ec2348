package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/toyc/frontend"
	"github.com/npillmayer/toyc/tree"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// tracer traces with key 'toyc.frontend'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.frontend")
}

var traceKeys = []string{"toyc.lexer", "toyc.lr", "toyc.semantic", "toyc.frontend"}

// main() starts an interactive CLI ("T.REPL"), where users may enter toy
// programs. T.REPL will compile each program and print out tokens, syntax
// tree and diagnostics. Programs may span several lines; input is collected
// until all curly braces are closed.
//
// Source files given as arguments are compiled in batch mode instead.
//
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	tablePath := flag.String("table", "", "Parsing table (JSON); default is the built-in toy grammar table")
	lexerName := flag.String("lexer", "dfa", "Lexer [dfa|regex]")
	strip := flag.Bool("strip", false, "Remove whitespace before tokenizing (dfa lexer only)")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	initf := flag.String("init", "", "Initial load")
	flag.Parse()
	setTraceLevel(tracing.LevelError) // will set the correct level later
	//
	fe, err := frontend.New(
		frontend.WithTablePath(*tablePath),
		frontend.WithRegexLexer(*lexerName == "regex"),
		frontend.WithStripWhitespace(*strip),
	)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	setTraceLevel(tracing.TraceLevelFromString(*tlevel)) // now set the user supplied level
	intp := &Intp{fe: fe, json: *asJSON}
	if flag.NArg() > 0 {
		failed := false
		for _, filename := range flag.Args() {
			failed = !intp.loadFile(filename) || failed
		}
		if failed {
			os.Exit(1)
		}
		return
	}
	//
	// set up REPL
	pterm.Info.Println("Welcome to TREPL") // colored welcome message
	repl, err := readline.New("toyc> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp.repl = repl
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadFile(*initf)               // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(level tracing.TraceLevel) {
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// Intp is our interpreter object
type Intp struct {
	fe   *frontend.Frontend
	repl *readline.Instance
	json bool
}

// loadFile compiles a source file. It returns false if the file could not be
// read or the program contains errors.
func (intp *Intp) loadFile(filename string) bool {
	if filename == "" {
		return true
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		tracer().Errorf("Unable to open file: %s", filename)
		return false
	}
	pterm.Info.Println(filename)
	return intp.Eval(string(source))
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	var program strings.Builder
	open := 0
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" && open == 0 {
			continue
		}
		program.WriteString(line)
		program.WriteByte('\n')
		open += strings.Count(line, "{") - strings.Count(line, "}")
		if open > 0 {
			intp.repl.SetPrompt("  ... ")
			continue
		}
		intp.Eval(program.String())
		program.Reset()
		open = 0
		intp.repl.SetPrompt("toyc> ")
	}
	println("Good bye!")
}

// Eval compiles a program and prints the result. It returns false if the
// program contains errors.
func (intp *Intp) Eval(source string) bool {
	result, err := intp.fe.Compile(source)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	if intp.json {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			pterm.Error.Println(err.Error())
			return false
		}
		fmt.Println(string(data))
		return result.OK()
	}
	printTokens(result)
	if !result.Accepted {
		pterm.Error.Println("syntax error: program rejected")
		return false
	}
	printTree(result.Tree)
	if d := result.Diagnostic; d != nil {
		pterm.Error.Printf("%d:%d-%d: %s\n", d.Line, d.Start, d.End, d.Message)
		return false
	}
	pterm.Success.Println("program accepted")
	return true
}

func printTokens(result *frontend.Result) {
	data := pterm.TableData{{"Kind", "Lexeme", "Line", "Start", "End"}}
	for _, t := range result.Tokens {
		data = append(data, []string{t.Kind, t.Lexeme,
			fmt.Sprint(t.Line), fmt.Sprint(t.Start), fmt.Sprint(t.End)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printTree(forest []*tree.Node) {
	ll := pterm.LeveledList{}
	for _, item := range tree.Leveled(forest) {
		ll = append(ll, pterm.LeveledListItem{Level: item.Level, Text: item.Text})
	}
	tracer().Debugf("|ll| = %d", len(ll))
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}
