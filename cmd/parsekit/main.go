// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the parsekit CLI: a small demonstration
// front-end that loads a grammar (from DSL source) and either tokenizes
// or parses an input file against it.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdhender/parsekit"
)

var logger *slog.Logger

func main() {
	var grammarPath, inputPath, rootName string
	var debug, noColor bool

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cmdRoot := &cobra.Command{
		Use:           "parsekit",
		Short:         "parser-combinator engine CLI",
		Long:          `Build a grammar from DSL source and run it against an input file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl := slog.LevelError
			if debug {
				lvl = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     lvl,
				AddSource: debug,
			}))
			slog.SetDefault(logger)
			return nil
		},
	}
	cmdRoot.PersistentFlags().StringVar(&grammarPath, "grammar", "", "path to a DSL grammar file")
	cmdRoot.PersistentFlags().StringVar(&inputPath, "input", "", "path to the file to tokenize or parse")
	cmdRoot.PersistentFlags().StringVar(&rootName, "root", "", "override the grammar's root rule (informational; the root is fixed at build time)")
	cmdRoot.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging and per-rule trace output")
	cmdRoot.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in rendered parse errors")

	cmdTokenize := &cobra.Command{
		Use:   "tokenize",
		Short: "lex the input and print its tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, source, err := loadGrammarAndInput(grammarPath, inputPath, debug)
			if err != nil {
				return err
			}
			toks, err := g.Tokenize(source)
			if err != nil {
				printParseError(err, noColor)
				return err
			}
			for _, tok := range toks {
				fmt.Printf("%s %q\n", tok.Kind, source[tok.Span.Start:tok.Span.End])
			}
			return nil
		},
	}
	cmdRoot.AddCommand(cmdTokenize)

	cmdParse := &cobra.Command{
		Use:   "parse",
		Short: "parse the input and print its AST",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, source, err := loadGrammarAndInput(grammarPath, inputPath, debug)
			if err != nil {
				return err
			}
			node, err := g.Parse(source)
			if err != nil {
				printParseError(err, noColor)
				return err
			}
			fmt.Println(renderNode(node, 0))
			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse)

	cmdVersion := &cobra.Command{
		Use:   "version",
		Short: "print the engine's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(parsekit.Version.String())
		},
	}
	cmdRoot.AddCommand(cmdVersion)

	_ = rootName // reserved: the root rule is fixed at grammar-build time, not overridable from the CLI yet
	if err := cmdRoot.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadGrammarAndInput(grammarPath, inputPath string, debug bool) (*parsekit.Grammar, string, error) {
	if grammarPath == "" {
		return nil, "", fmt.Errorf("--grammar is required")
	}
	if inputPath == "" {
		return nil, "", fmt.Errorf("--input is required")
	}
	grammarSrc, err := os.ReadFile(grammarPath)
	if err != nil {
		return nil, "", fmt.Errorf("grammar: %w", err)
	}
	g, err := parsekit.GrammarFromDSL(string(grammarSrc))
	if err != nil {
		return nil, "", fmt.Errorf("grammar: %w", err)
	}
	if debug {
		g = g.WithDebug(func(name string, idx int, ok bool) {
			logger.Debug("rule", "grammar", g.ID, "name", name, "index", idx, "ok", ok)
		})
	}
	input, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("input: %w", err)
	}
	return g, string(input), nil
}

func printParseError(err error, noColor bool) {
	if pe, ok := err.(*parsekit.ParseError); ok {
		fmt.Fprintln(os.Stderr, pe.Render())
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func renderNode(n *parsekit.Node, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	return fmt.Sprintf("%s%s %v", indent, n.Type, n.Properties)
}
