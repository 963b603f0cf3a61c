package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

type (
	kongKey    struct{}
	sourcesKey struct{}
	stdioKey   struct{}
)

// WithContext returns ctx carrying the parsed [kong.Context].
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongKey{}).(*kong.Context)

	return ktx
}

type stdio struct {
	in  io.Reader
	out io.Writer
}

// WithStdio returns ctx whose commands read from in and write to out
// instead of the process's standard streams. A nil stream keeps the default.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.in != nil {
		return s.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.out != nil {
		return s.out
	}

	return os.Stdout
}

// stdinSource names standard input among --source paths.
const stdinSource = "-"

// SourceFiles is the concatenated content of the --source files.
type SourceFiles interface {
	io.Reader
	// Paths lists the files read, in order, with "-" for standard input.
	Paths() []string
}

type sourceFiles struct {
	paths  []string
	reader io.Reader
}

func (s *sourceFiles) Read(p []byte) (int, error) { return s.reader.Read(p) }

func (s *sourceFiles) Paths() []string { return s.paths }

// WithSourceFiles returns ctx carrying the files named by sources.
//
// Paths naming the same file (through symlinks, relative paths, or hard
// links) are read once. Every "-" collapses into one read of standard
// input placed after the regular files. Unreadable paths are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	if s := openSourceFiles(stdinFrom(ctx), sources); s != nil {
		return context.WithValue(ctx, sourcesKey{}, SourceFiles(s))
	}

	return ctx
}

func openSourceFiles(stdin io.Reader, sources []string) *sourceFiles {
	var (
		s        sourceFiles
		readers  []io.Reader
		seen     []os.FileInfo
		useStdin bool
	)

	for _, src := range sources {
		if src == stdinSource {
			useStdin = true

			continue
		}

		f, info, ok := openUnique(src, seen)
		if !ok {
			continue
		}

		seen = append(seen, info)
		readers = append(readers, f)
		s.paths = append(s.paths, f.Name())
	}

	if useStdin {
		readers = append(readers, stdin)
		s.paths = append(s.paths, stdinSource)
	}

	if len(readers) == 0 {
		return nil
	}

	s.reader = io.MultiReader(readers...)

	return &s
}

func openUnique(path string, seen []os.FileInfo) (*os.File, os.FileInfo, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return nil, nil, false
	}

	for _, prev := range seen {
		if os.SameFile(prev, info) {
			return nil, nil, false
		}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, nil, false
	}

	return f, info, true
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	s, _ := ctx.Value(sourcesKey{}).(SourceFiles)

	return s
}
