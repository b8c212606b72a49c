package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mcc/compiler"
	"github.com/slowlang/mcc/compiler/format"
	"github.com/slowlang/mcc/compiler/front"
)

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print the token sequence of source files",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse source files and print them back formatted",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile source files to assembly written next to them",
		Action:      compileAct,
		Args:        cli.Args{},
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "compile source files and link 32-bit executables",
		Action:      buildAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "mcc",
		Description: "mcc is a tiny ahead-of-time compiler from a C subset to i386 assembly",
		Commands: []*cli.Command{
			tokensCmd,
			parseCmd,
			compileCmd,
			buildCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func tokensAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		toks, err := front.Tokenize(ctx, text)
		if err != nil {
			return errors.Wrap(err, "tokenize %v", a)
		}

		for _, t := range toks {
			fmt.Printf("%4d  %v\n", t.Pos, t)
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		toks, err := front.Tokenize(ctx, text)
		if err != nil {
			return errors.Wrap(err, "tokenize %v", a)
		}

		x, err := front.Parse(ctx, toks)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		out := compiler.AsmPath(a)

		err = os.WriteFile(out, obj, 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", out)
		}

		tlog.SpanFromContext(ctx).Printw("compiled", "src", a, "asm", out)
	}

	return nil
}

func buildAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		exe, err := compiler.BuildFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "build %v", a)
		}

		tlog.SpanFromContext(ctx).Printw("built", "src", a, "exe", exe)
	}

	return nil
}
