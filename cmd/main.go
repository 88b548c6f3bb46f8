package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	binisaya "github.com/Sympra/Programming-Language-Final-Project/pkg"
)

func main() {
	emit := flag.String("emit", "text", "output form: text or llvm")
	tokens := flag.Bool("tokens", false, "print the token listing before compiling")
	watch := flag.Bool("watch", false, "recompile when a source file changes")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: binisaya [-emit text|llvm] [-tokens] [-watch] file...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	target, err := binisaya.ParseEmit(*emit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := binisaya.Options{Emit: target, DumpTokens: *tokens}
	files := flag.Args()

	ok := compileAll(context.Background(), opts, files)
	if !*watch {
		if !ok {
			os.Exit(1)
		}

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := watchFiles(ctx, opts, files); err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(1)
	}
}

type report struct {
	out strings.Builder
	ok  bool
}

// compileAll compiles every file concurrently and prints the reports in
// argument order. It reports whether all files compiled.
func compileAll(ctx context.Context, opts binisaya.Options, files []string) bool {
	reports := make([]*report, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			reports[i] = compileFile(opts, file)
			return nil
		})
	}
	_ = g.Wait()

	allOK := true
	for _, r := range reports {
		fmt.Print(r.out.String())
		allOK = allOK && r.ok
	}

	return allOK
}

func compileFile(opts binisaya.Options, file string) *report {
	r := &report{}
	opts.Out = &r.out

	if opts.DumpTokens {
		fmt.Fprintf(&r.out, "TOKENS GENERATED (%s):\n", file)
	}

	res, err := binisaya.NewCompiler(opts).Compile(file)
	switch {
	case errors.Cause(err) == binisaya.ErrSemantic:
		fmt.Fprintf(&r.out, "%s: %s", file, binisaya.FormatDiagnostics(res.Diagnostics))
	case err != nil:
		fmt.Fprintf(&r.out, "%s: %v\n", file, err)
	default:
		fmt.Fprintf(&r.out, "%s: semantic analysis passed, no errors found\n", file)
		r.out.WriteString(res.Output)
		r.ok = true
	}

	return r
}

func watchFiles(ctx context.Context, opts binisaya.Options, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files, so watch the directories instead
	watched := make(map[string]bool)
	tracked := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		tracked[abs] = true

		dir := filepath.Dir(abs)
		if !watched[dir] {
			if err := w.Add(dir); err != nil {
				return errors.Wrapf(err, "watch %s", dir)
			}
			watched[dir] = true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			abs, err := filepath.Abs(ev.Name)
			if err != nil || !tracked[abs] {
				continue
			}

			compileAll(ctx, opts, []string{ev.Name})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintln(os.Stderr, "watch:", err)
		}
	}
}
