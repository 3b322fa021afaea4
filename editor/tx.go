package editor

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type opKind int

const (
	opReplace opKind = iota
	opInsert
	opRemove
)

// editOp 一条编辑操作，行号以事务开始时的内容为准
type editOp struct {
	kind  opKind
	start int
	end   int
	text  string
}

// fileTx 记录一次事务中的编辑操作
// 操作只做记录与校验，应用发生在 Host 提交阶段
type fileTx struct {
	lineCount int
	ops       []editOp
	shorten   bool
}

func (t *fileTx) ReplaceLines(start, end int, text string) error {
	if err := t.checkSpan(start, end); err != nil {
		return err
	}
	t.ops = append(t.ops, editOp{kind: opReplace, start: start, end: end, text: text})
	return nil
}

func (t *fileTx) InsertBefore(line int, text string) error {
	if line < 0 || line > t.lineCount {
		return fmt.Errorf("插入位置越界: %d (共 %d 行)", line, t.lineCount)
	}
	t.ops = append(t.ops, editOp{kind: opInsert, start: line, end: line, text: text})
	return nil
}

func (t *fileTx) RemoveLines(start, end int) error {
	if err := t.checkSpan(start, end); err != nil {
		return err
	}
	t.ops = append(t.ops, editOp{kind: opRemove, start: start, end: end})
	return nil
}

func (t *fileTx) ShortenRefs() error {
	t.shorten = true
	return nil
}

func (t *fileTx) checkSpan(start, end int) error {
	if start < 0 || end < start || end >= t.lineCount {
		return fmt.Errorf("行区间越界: [%d, %d] (共 %d 行)", start, end, t.lineCount)
	}
	return nil
}

// applyTo 将记录的操作应用到 content
// 按起始行从下往上应用，使行号不受先前编辑的位移影响
func (t *fileTx) applyTo(content string) (string, error) {
	if err := t.checkOverlap(); err != nil {
		return "", err
	}

	ops := slices.Clone(t.ops)
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].start > ops[j].start
	})

	lines := strings.Split(content, "\n")
	for _, op := range ops {
		switch op.kind {
		case opReplace:
			lines = slices.Replace(lines, op.start, op.end+1, strings.Split(op.text, "\n")...)
		case opInsert:
			lines = slices.Insert(lines, op.start, strings.Split(op.text, "\n")...)
		case opRemove:
			lines = slices.Delete(lines, op.start, op.end+1)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// checkOverlap 校验修改类操作的区间互不重叠
func (t *fileTx) checkOverlap() error {
	for i, a := range t.ops {
		if a.kind == opInsert {
			continue
		}
		for _, b := range t.ops[i+1:] {
			if b.kind == opInsert {
				continue
			}
			if a.start <= b.end && b.start <= a.end {
				return fmt.Errorf("编辑区间重叠: [%d, %d] 与 [%d, %d]", a.start, a.end, b.start, b.end)
			}
		}
	}
	return nil
}
