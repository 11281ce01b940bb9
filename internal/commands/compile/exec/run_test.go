package exec_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artuross/tiny-compiler/internal/commands/compile/exec"
	"github.com/artuross/tiny-compiler/internal/compiler"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, source string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	return path
}

func TestExecutor_Run(t *testing.T) {
	t.Run("stdout keeps argument order", func(t *testing.T) {
		dir := t.TempDir()

		files := []string{
			writeSource(t, dir, "a.lisp", "(a 1)"),
			writeSource(t, dir, "b.lisp", "(b 2) (c 3)"),
			writeSource(t, dir, "c.lisp", `(d "x")`),
		}

		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader(""), &stdout)

		err := executor.Run(context.Background(), exec.Config{Files: files, Jobs: 2})
		require.NoError(t, err)

		assert.Equal(t, "a(1);\nb(2);\nc(3);\nd(\"x\");\n", stdout.String())
	})

	t.Run("stdin", func(t *testing.T) {
		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader("(add 2 3)"), &stdout)

		err := executor.Run(context.Background(), exec.Config{Files: []string{exec.StdinFile}, Jobs: 1})
		require.NoError(t, err)

		assert.Equal(t, "add(2, 3);\n", stdout.String())
	})

	t.Run("output dir", func(t *testing.T) {
		srcDir := t.TempDir()
		outDir := t.TempDir()

		files := []string{
			writeSource(t, srcDir, "first.lisp", "(subtract 4 (add 2 2))"),
			writeSource(t, srcDir, "second", "(print \"hi\")"),
		}

		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader("(stdin)"), &stdout)

		err := executor.Run(context.Background(), exec.Config{
			Files:     append(files, exec.StdinFile),
			Jobs:      4,
			OutputDir: outDir,
		})
		require.NoError(t, err)

		assert.Empty(t, stdout.String())

		first, err := os.ReadFile(filepath.Join(outDir, "first.c"))
		require.NoError(t, err)
		assert.Equal(t, "subtract(4, add(2, 2));\n", string(first))

		second, err := os.ReadFile(filepath.Join(outDir, "second.c"))
		require.NoError(t, err)
		assert.Equal(t, "print(\"hi\");\n", string(second))

		stdin, err := os.ReadFile(filepath.Join(outDir, "stdin.c"))
		require.NoError(t, err)
		assert.Equal(t, "stdin();\n", string(stdin))
	})

	t.Run("failure writes nothing to stdout", func(t *testing.T) {
		dir := t.TempDir()

		files := []string{
			writeSource(t, dir, "ok.lisp", "(a 1)"),
			writeSource(t, dir, "bad.lisp", "(a 1"),
		}

		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader(""), &stdout)

		err := executor.Run(context.Background(), exec.Config{Files: files, Jobs: 1})
		require.Error(t, err)

		assert.ErrorIs(t, err, parser.ErrUnclosedCall)
		assert.Contains(t, err.Error(), "bad.lisp")
		assert.Empty(t, stdout.String())
	})

	t.Run("same base name in output dir", func(t *testing.T) {
		srcDir := t.TempDir()
		outDir := t.TempDir()

		require.NoError(t, os.Mkdir(filepath.Join(srcDir, "a"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(srcDir, "b"), 0o755))

		files := []string{
			writeSource(t, srcDir, filepath.Join("a", "x.lisp"), "(one 1)"),
			writeSource(t, srcDir, filepath.Join("b", "x.lisp"), "(two 2)"),
		}

		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader(""), &stdout)

		err := executor.Run(context.Background(), exec.Config{
			Files:     files,
			Jobs:      2,
			OutputDir: outDir,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, exec.ErrDuplicateOutput)
		assert.Contains(t, err.Error(), "x.c")

		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("same base name on stdout", func(t *testing.T) {
		srcDir := t.TempDir()

		require.NoError(t, os.Mkdir(filepath.Join(srcDir, "a"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(srcDir, "b"), 0o755))

		files := []string{
			writeSource(t, srcDir, filepath.Join("a", "x.lisp"), "(one 1)"),
			writeSource(t, srcDir, filepath.Join("b", "x.lisp"), "(two 2)"),
		}

		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader(""), &stdout)

		err := executor.Run(context.Background(), exec.Config{Files: files, Jobs: 2})
		require.NoError(t, err)

		assert.Equal(t, "one(1);\ntwo(2);\n", stdout.String())
	})

	t.Run("missing file", func(t *testing.T) {
		var stdout bytes.Buffer
		executor := exec.NewExecutor(compiler.New(), strings.NewReader(""), &stdout)

		err := executor.Run(context.Background(), exec.Config{
			Files: []string{filepath.Join(t.TempDir(), "missing.lisp")},
			Jobs:  1,
		})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
