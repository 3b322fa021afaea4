package annotation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorruptContainer 容器注解文本损坏，定位不到插入边界
	// 合成阶段直接失败，不做任何猜测性修补
	ErrCorruptContainer = errors.New("容器注解文本损坏")

	// ErrInvariant 注解形态超出查找阶段的约定范围
	ErrInvariant = errors.New("注解形态不在预期范围内")
)

// Merged 合成结果
// Standalone 为 true 时 Text 是要直接附加的单条注解，无需容器
type Merged struct {
	Text       string
	Standalone bool
}

// BuildMerged 合成既有容器与新注解的并集文本
// 纯内存的字符串拼接，不触碰源文件；既有属性逐字保留，新注解追加在末尾
func BuildMerged(c *Container, d *Directive, names Names) (*Merged, error) {
	if c == nil {
		return &Merged{Text: d.Raw, Standalone: true}, nil
	}
	if !c.ArrayForm {
		// 容器以非数组形式携带单个值
		if len(c.Attrs) != 1 {
			return nil, fmt.Errorf("%w: 非数组容器携带 %d 个属性: %s", ErrInvariant, len(c.Attrs), c.Raw)
		}
		current := c.Attrs[0].Raw
		return &Merged{
			Text: "@" + names.ContainerQualified + "({\n" + current + ",\n " + d.Raw + "\n})",
		}, nil
	}

	brace := strings.LastIndexByte(c.Raw, '}')
	if brace <= 0 {
		return nil, fmt.Errorf("%w: 缺少数组闭合符: %s", ErrCorruptContainer, c.Raw)
	}
	before := c.Raw[:brace]
	paren := strings.LastIndexByte(before, ')')
	if paren < 0 {
		if c.Physical {
			// 物理容器里找不到任何一条注解的调用闭合，无法确定插入边界
			return nil, fmt.Errorf("%w: 定位不到插入边界: %s", ErrCorruptContainer, c.Raw)
		}
		// 内存中构造的空容器，直接落在数组里
		return &Merged{Text: before + " " + d.Raw + "\n})"}, nil
	}
	return &Merged{Text: before[:paren] + "),\n " + d.Raw + "\n})"}, nil
}
