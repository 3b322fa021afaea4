// Package editor 提供作用域化的原子文件编辑宿主。
//
// 一次 Mutate 调用中的所有编辑先记录在内存中，回调返回后统一应用到
// 行缓冲，经限定名缩短与格式化后，通过临时文件 + rename 原子落盘。
// 回调返回错误时不发生任何物理修改。每次提交保留上一版内容，可以 Undo。
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/imports"
)

// Tx 一次受控编辑中可用的操作集合
// 所有行号均以事务开始时的文件内容为准，0 起始，区间为闭区间
type Tx interface {
	// ReplaceLines 以 text（可多行）替换 [start, end] 行
	ReplaceLines(start, end int, text string) error
	// InsertBefore 在 line 行之前插入 text（可多行）
	InsertBefore(line int, text string) error
	// RemoveLines 删除 [start, end] 行
	RemoveLines(start, end int) error
	// ShortenRefs 提交时对全文做限定名缩短
	ShortenRefs() error
}

// Host 作用域化的原子编辑宿主
type Host interface {
	// Mutate 在 path 上执行 fn 记录的全部编辑，整体原子提交
	// fn 返回错误时文件保持原样，错误原样向上传递
	Mutate(path string, fn func(tx Tx) error) error
	// Undo 恢复 path 最近一次 Mutate 之前的内容
	Undo(path string) error
}

// FileEditor 基于文件系统的 Host 实现
type FileEditor struct {
	mu      sync.Mutex
	journal map[string][]byte // path -> 上一版内容
	diffs   map[string]string // path -> 最近一次 dry-run 的统一 diff

	dryRun  bool
	format  bool
	persist bool        // 把撤销快照落盘，跨进程可用
	shorten [][2]string // 限定名 -> 短名 重写表
}

// EditorOption 编辑器选项
type EditorOption func(*FileEditor)

// WithDryRun 只计算结果不落盘，结果以统一 diff 形式通过 Diff 获取
func WithDryRun() EditorOption {
	return func(e *FileEditor) { e.dryRun = true }
}

// WithFormat 提交时用 goimports 规则格式化文件
func WithFormat(on bool) EditorOption {
	return func(e *FileEditor) { e.format = on }
}

// WithUndoFiles 把撤销快照写到源文件旁的隐藏文件里
// 命令行的 undo 子命令依赖它在进程退出后仍能恢复
func WithUndoFiles() EditorOption {
	return func(e *FileEditor) { e.persist = true }
}

// WithShorten 注册一条限定名缩短规则，如 "@mapgen.Mapping" -> "@Mapping"
func WithShorten(qualified, short string) EditorOption {
	return func(e *FileEditor) {
		e.shorten = append(e.shorten, [2]string{qualified, short})
	}
}

func NewFileEditor(opts ...EditorOption) *FileEditor {
	e := &FileEditor{
		journal: make(map[string][]byte),
		diffs:   make(map[string]string),
		format:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	// 长的限定名优先重写，避免前缀互相吞掉
	sort.SliceStable(e.shorten, func(i, j int) bool {
		return len(e.shorten[i][0]) > len(e.shorten[j][0])
	})
	return e
}

// Mutate 实现 Host
func (e *FileEditor) Mutate(path string, fn func(tx Tx) error) error {
	old, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	tx := &fileTx{lineCount: strings.Count(string(old), "\n") + 1}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.ops) == 0 {
		return nil
	}

	merged, err := tx.applyTo(string(old))
	if err != nil {
		return err
	}
	if tx.shorten {
		merged = e.shortenRefs(merged)
	}
	out := []byte(merged)
	if e.format {
		if formatted, err := imports.Process(path, out, &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		}); err == nil {
			// 格式化失败不阻塞提交，文件可能本来就编译不过
			out = formatted
		}
	}

	if e.dryRun {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(old)),
			B:        difflib.SplitLines(string(out)),
			FromFile: path,
			ToFile:   path + " (merged)",
			Context:  3,
		})
		e.mu.Lock()
		e.diffs[path] = diff
		e.mu.Unlock()
		return nil
	}

	if err := atomicWrite(path, out); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}

	e.mu.Lock()
	e.journal[path] = old
	e.mu.Unlock()
	if e.persist {
		if err := os.WriteFile(undoPath(path), old, 0o644); err != nil {
			return fmt.Errorf("写入撤销快照失败: %w", err)
		}
	}
	return nil
}

// Undo 实现 Host
// 恢复后与被撤销的内容互换，再次 Undo 即为重做
func (e *FileEditor) Undo(path string) error {
	e.mu.Lock()
	prev, ok := e.journal[path]
	e.mu.Unlock()
	if !ok && e.persist {
		if data, err := os.ReadFile(undoPath(path)); err == nil {
			prev, ok = data, true
		}
	}
	if !ok {
		return fmt.Errorf("没有可撤销的修改: %s", path)
	}

	cur, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if err := atomicWrite(path, prev); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}

	e.mu.Lock()
	e.journal[path] = cur
	e.mu.Unlock()
	if e.persist {
		if err := os.WriteFile(undoPath(path), cur, 0o644); err != nil {
			return fmt.Errorf("写入撤销快照失败: %w", err)
		}
	}
	return nil
}

// CanUndo 判断 path 是否有可撤销的历史
func (e *FileEditor) CanUndo(path string) bool {
	e.mu.Lock()
	_, ok := e.journal[path]
	e.mu.Unlock()
	if !ok && e.persist {
		if _, err := os.Stat(undoPath(path)); err == nil {
			ok = true
		}
	}
	return ok
}

// undoPath 撤销快照文件路径
func undoPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".mapgen-undo")
}

// Diff 返回 path 最近一次 dry-run 的统一 diff
func (e *FileEditor) Diff(path string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diffs[path]
}

// shortenRefs 按注册的重写表缩短限定名
func (e *FileEditor) shortenRefs(content string) string {
	for _, pair := range e.shorten {
		content = strings.ReplaceAll(content, pair[0], pair[1])
	}
	return content
}

// atomicWrite 经临时文件 + rename 原子写入，保留原文件权限
func atomicWrite(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mapgen-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
