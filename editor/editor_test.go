package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMutateReplaceInsertRemove(t *testing.T) {
	path := writeFixture(t, "l0\nl1\nl2\nl3\nl4")
	e := NewFileEditor(WithFormat(false))

	err := e.Mutate(path, func(tx Tx) error {
		if err := tx.ReplaceLines(1, 2, "r1\nr2"); err != nil {
			return err
		}
		if err := tx.RemoveLines(4, 4); err != nil {
			return err
		}
		return tx.InsertBefore(3, "i0")
	})
	require.NoError(t, err)

	got := readFile(t, path)
	require.Equalf(t, "l0\nr1\nr2\ni0\nl3", got, "合并结果不一致: %s", spew.Sdump(got))
}

func TestMutateRollbackOnError(t *testing.T) {
	const content = "l0\nl1\nl2"
	path := writeFixture(t, content)
	e := NewFileEditor(WithFormat(false))

	boom := errors.New("磁盘已满")
	err := e.Mutate(path, func(tx Tx) error {
		if err := tx.RemoveLines(0, 0); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	// 回调失败，文件保持原样，也没有可撤销的历史
	assert.Equal(t, content, readFile(t, path))
	assert.False(t, e.CanUndo(path))
}

func TestMutateNoOps(t *testing.T) {
	const content = "l0\nl1"
	path := writeFixture(t, content)
	e := NewFileEditor(WithFormat(false))

	require.NoError(t, e.Mutate(path, func(tx Tx) error { return nil }))
	assert.Equal(t, content, readFile(t, path))
	assert.False(t, e.CanUndo(path))
}

func TestMutateSpanOutOfRange(t *testing.T) {
	path := writeFixture(t, "l0\nl1")
	e := NewFileEditor(WithFormat(false))

	err := e.Mutate(path, func(tx Tx) error {
		return tx.RemoveLines(0, 5)
	})
	assert.Error(t, err)
	assert.Equal(t, "l0\nl1", readFile(t, path))
}

func TestMutateOverlap(t *testing.T) {
	path := writeFixture(t, "l0\nl1\nl2\nl3")
	e := NewFileEditor(WithFormat(false))

	err := e.Mutate(path, func(tx Tx) error {
		if err := tx.ReplaceLines(0, 2, "x"); err != nil {
			return err
		}
		return tx.RemoveLines(2, 3)
	})
	assert.Error(t, err)
	assert.Equal(t, "l0\nl1\nl2\nl3", readFile(t, path))
}

func TestUndoSwap(t *testing.T) {
	path := writeFixture(t, "old")
	e := NewFileEditor(WithFormat(false))

	require.NoError(t, e.Mutate(path, func(tx Tx) error {
		return tx.ReplaceLines(0, 0, "new")
	}))
	require.True(t, e.CanUndo(path))

	// 撤销恢复旧内容，再撤销一次即重做
	require.NoError(t, e.Undo(path))
	assert.Equal(t, "old", readFile(t, path))
	require.NoError(t, e.Undo(path))
	assert.Equal(t, "new", readFile(t, path))
}

func TestUndoWithoutHistory(t *testing.T) {
	path := writeFixture(t, "l0")
	e := NewFileEditor(WithFormat(false))
	assert.Error(t, e.Undo(path))
}

func TestUndoFilesAcrossInstances(t *testing.T) {
	path := writeFixture(t, "old")

	first := NewFileEditor(WithFormat(false), WithUndoFiles())
	require.NoError(t, first.Mutate(path, func(tx Tx) error {
		return tx.ReplaceLines(0, 0, "new")
	}))

	// 新进程（新实例）也能依赖落盘的快照撤销
	second := NewFileEditor(WithFormat(false), WithUndoFiles())
	require.True(t, second.CanUndo(path))
	require.NoError(t, second.Undo(path))
	assert.Equal(t, "old", readFile(t, path))
}

func TestDryRunDiff(t *testing.T) {
	const content = "l0\nl1\n"
	path := writeFixture(t, content)
	e := NewFileEditor(WithFormat(false), WithDryRun())

	require.NoError(t, e.Mutate(path, func(tx Tx) error {
		return tx.ReplaceLines(1, 1, "changed")
	}))

	assert.Equal(t, content, readFile(t, path))
	diff := e.Diff(path)
	assert.Contains(t, diff, "-l1")
	assert.Contains(t, diff, "+changed")
}

func TestShortenRefs(t *testing.T) {
	path := writeFixture(t, "// @mapgen.Mappings({\n// @mapgen.Mapping(target=`a`)\n// })\nbody")
	e := NewFileEditor(
		WithFormat(false),
		WithShorten("@mapgen.Mapping", "@Mapping"),
		WithShorten("@mapgen.Mappings", "@Mappings"),
	)

	require.NoError(t, e.Mutate(path, func(tx Tx) error {
		if err := tx.ReplaceLines(3, 3, "body2"); err != nil {
			return err
		}
		return tx.ShortenRefs()
	}))

	got := readFile(t, path)
	assert.Equal(t, "// @Mappings({\n// @Mapping(target=`a`)\n// })\nbody2", got)
}

func TestShortenRefsNotRequested(t *testing.T) {
	path := writeFixture(t, "// @mapgen.Mapping(target=`a`)\nbody")
	e := NewFileEditor(WithFormat(false), WithShorten("@mapgen.Mapping", "@Mapping"))

	require.NoError(t, e.Mutate(path, func(tx Tx) error {
		return tx.ReplaceLines(1, 1, "body2")
	}))

	// 未调用 ShortenRefs 时限定名保持原样
	assert.True(t, strings.Contains(readFile(t, path), "@mapgen.Mapping"))
}
