package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/toyc/lr"
	"github.com/npillmayer/toyc/lr/slr"
	"github.com/npillmayer/toyc/toylang"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// tracer traces with key 'toyc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lr")
}

// main() generates an SLR(1) parsing table document for a grammar. The
// grammar is either read from an EBNF file or is the built-in toy grammar.
//
//     slrgen -ebnf expr.ebnf -start Expr -o expr.json -dot expr.dot
//
// slrgen exits with a non-zero status if the grammar is not SLR(1), unless
// flag -force is given.
//
func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	ebnfFile := flag.String("ebnf", "", "EBNF grammar file; default is the toy grammar")
	start := flag.String("start", "", "Start production of the EBNF grammar")
	out := flag.String("o", "", "Output file for the table document; default is stdout")
	dot := flag.String("dot", "", "Output file for the CFSM in Graphviz format")
	html := flag.String("html", "", "Output file for ACTION and GOTO tables in HTML")
	force := flag.Bool("force", false, "Write tables for grammars with conflicts")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	//
	lrgen, err := generator(*ebnfFile, *start)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	g := lrgen.Grammar()
	pterm.Info.Printf("grammar %s: %d rules, %d states\n", g.Name, g.Size(), len(lrgen.CFSM().States()))
	if lrgen.HasConflicts {
		for _, c := range lrgen.Conflicts() {
			pterm.Warning.Println(c.String())
		}
		if !*force {
			pterm.Error.Println("grammar is not SLR(1)")
			os.Exit(1)
		}
	}
	if *dot != "" {
		check(writeFile(*dot, lrgen.CFSM().CFSM2GraphViz))
	}
	if *html != "" {
		check(writeFile(*html, func(w io.Writer) error {
			lr.ActionTableAsHTML(lrgen, w)
			lr.GotoTableAsHTML(lrgen, w)
			return nil
		}))
	}
	doc, err := slr.Export(lrgen, slr.IgnoreConflicts())
	check(err)
	data, err := json.MarshalIndent(doc, "", "  ")
	check(err)
	if *out == "" {
		fmt.Println(string(data))
		return
	}
	check(os.WriteFile(*out, append(data, '\n'), 0644))
	pterm.Success.Printf("table written to %s\n", *out)
}

func generator(ebnfFile, start string) (*lr.TableGenerator, error) {
	if ebnfFile == "" {
		return toylang.Generator()
	}
	if start == "" {
		return nil, fmt.Errorf("flag -start required for EBNF grammars")
	}
	f, err := os.Open(ebnfFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := filepath.Base(ebnfFile)
	g, err := lr.FromEBNF(name, f, start)
	if err != nil {
		return nil, err
	}
	g.Dump() // only visible in debug mode
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	return lrgen, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func check(err error) {
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
}
