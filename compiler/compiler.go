package compiler

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mcc/compiler/back"
	"github.com/slowlang/mcc/compiler/front"
)

// CompileFile compiles one source file and returns the assembly text.
func CompileFile(ctx context.Context, name string) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile runs the pipeline on text: tokenize, parse, generate. The
// stages run strictly in order and the first error stops everything, so
// a failed compilation never produces output. Front end errors come back
// prefixed with name:line:col of the offending token.
func Compile(ctx context.Context, name string, text []byte) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	toks, err := front.Tokenize(ctx, text)
	if err != nil {
		return nil, wrapPos(err, name, text)
	}

	if tr.If("dump_tokens") {
		for i, t := range toks {
			tr.Printw("token", "i", i, "tok", t)
		}
	}

	p, err := front.Parse(ctx, toks)
	if err != nil {
		return nil, wrapPos(err, name, text)
	}

	if tr.If("dump_ast") {
		tr.Printw("ast", "func", p.Func.Name, "typ", tlog.NextAsType, p.Func.Body, "body", p.Func.Body)
	}

	obj, err = back.New().CompileProgram(ctx, nil, p)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	return obj, nil
}

// BuildFile compiles name, writes the assembly next to it and runs the
// system C driver to assemble and link a 32-bit executable. It returns
// the executable path.
//
// The driver is cc unless the MCC_CC environment variable names another
// one.
func BuildFile(ctx context.Context, name string) (exe string, err error) {
	obj, err := CompileFile(ctx, name)
	if err != nil {
		return "", err
	}

	asmFile := AsmPath(name)

	err = os.WriteFile(asmFile, obj, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "write assembly")
	}

	tlog.SpanFromContext(ctx).Printw("wrote assembly", "name", asmFile, "size", len(obj))

	exe = ExePath(name)
	if exe == name { // source had no extension to strip
		exe += ".out"
	}

	cc := os.Getenv("MCC_CC")
	if cc == "" {
		cc = "cc"
	}

	cmd := exec.CommandContext(ctx, cc, "-m32", asmFile, "-o", exe)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return "", errors.Wrap(err, "%v", cc)
	}

	return exe, nil
}

// AsmPath is where the assembly for the given source goes: the source
// name with its extension replaced by .s.
func AsmPath(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".s"
}

// ExePath is the executable name for the given source: the source name
// with its extension dropped.
func ExePath(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// wrapPos prefixes a front end error with name:line:col resolved from
// the token position the error carries.
func wrapPos(err error, name string, text []byte) error {
	pos, ok := errPos(err)
	if !ok {
		return errors.Wrap(err, "%v", name)
	}

	line, col := lineCol(text, pos)

	return errors.Wrap(err, "%v:%d:%d", name, line, col)
}

func errPos(err error) (int, bool) {
	for err != nil {
		switch e := err.(type) {
		case front.UnexpectedError:
			return e.Got.Pos, true
		case front.UnrecognizedError:
			return e.Pos, true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}

		err = u.Unwrap()
	}

	return 0, false
}

// lineCol resolves a byte offset into 1-based line and column.
func lineCol(text []byte, pos int) (line, col int) {
	line, col = 1, 1

	for i := 0; i < pos && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 1

			continue
		}

		col++
	}

	return line, col
}
