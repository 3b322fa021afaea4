// Package merger 把新的映射注解合并到方法声明上。
//
// 合并分三步：查找既有容器注解（必要时在内存中构造）、合成并集文本、
// 在一次原子事务内提交。合成完全在内存中完成，任何一步失败都不会
// 留下半修改状态。
package merger

import (
	"strings"

	"github.com/samber/lo"

	"github.com/donutnomad/mapgen/annotation"
	"github.com/donutnomad/mapgen/editor"
	"github.com/donutnomad/mapgen/locator"
)

// capabilityChecker 判断目标模块能否使用可重复的单条注解形式
type capabilityChecker interface {
	CanUseRepeatableForm(path string) bool
}

// Merger 注解合并器
type Merger struct {
	caps  capabilityChecker
	host  editor.Host
	names annotation.Names
}

// MergerOption 合并器选项
type MergerOption func(*Merger)

// WithNames 覆盖注解名称配置
func WithNames(names annotation.Names) MergerOption {
	return func(m *Merger) { m.names = names }
}

func New(caps capabilityChecker, host editor.Host, opts ...MergerOption) *Merger {
	m := &Merger{
		caps:  caps,
		host:  host,
		names: annotation.DefaultNames(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Names 返回当前的注解名称配置
func (m *Merger) Names() annotation.Names {
	return m.names
}

// AddMapping 把 directive 合并到 method 上
// 方法已有容器时在原位替换；否则按能力检查结果，
// 或直接附加单条注解，或连同既有单条注解一起并入新容器
func (m *Merger) AddMapping(method *locator.Method, directive *annotation.Directive) error {
	container, toRemove := m.findOrCreateContainer(method)

	merged, err := annotation.BuildMerged(container, directive, m.names)
	if err != nil {
		return err
	}
	text := annotation.RenderComment(merged.Text, method.Indent)

	if container != nil && container.Physical {
		// 替换路径：容器已在源文件中，原位换成合成结果
		return m.host.Mutate(method.FilePath, func(tx editor.Tx) error {
			return tx.ReplaceLines(container.Span.Start, container.Span.End, text)
		})
	}

	// 插入路径：先删除被容器取代的单条注解，再附加合成结果
	return m.host.Mutate(method.FilePath, func(tx editor.Tx) error {
		if toRemove != nil {
			if err := tx.RemoveLines(toRemove.Span.Start, toRemove.Span.End); err != nil {
				return err
			}
		}
		if err := tx.InsertBefore(method.DeclLine, text); err != nil {
			return err
		}
		return tx.ShortenRefs()
	})
}

// findOrCreateContainer 查找方法上的容器注解，必要时在内存中构造
//
// 四种情形：
//   - 已有容器：原样返回
//   - 无容器且可重复形式可用：返回 (nil, nil)，直接附加单条注解
//   - 无容器、不可用、已有单条注解：构造内嵌既有注解文本的容器，
//     该单条注解随容器提交时删除
//   - 无容器、不可用、无既有注解：构造空容器
//
// 本方法只读取注解列表，不触碰源文件
func (m *Merger) findOrCreateContainer(method *locator.Method) (*annotation.Container, *annotation.Parsed) {
	if existing, ok := lo.Find(method.Annotations, func(a *annotation.Parsed) bool {
		return a.Name == m.names.Container
	}); ok {
		return annotation.AsContainer(existing, true), nil
	}

	if m.caps.CanUseRepeatableForm(method.FilePath) {
		return nil, nil
	}

	old, _ := lo.Find(method.Annotations, func(a *annotation.Parsed) bool {
		return a.Name == m.names.Directive
	})
	seed := ""
	if old != nil {
		seed = old.Raw
	}
	return annotation.NewSyntheticContainer(m.names, seed), old
}

// FoldStandalone 把方法上重复书写的单条注解折叠进容器
//
// 仅在可重复形式不可用时需要；已有容器时逐条并入既有容器。
// 返回值表示是否发生了修改。
func (m *Merger) FoldStandalone(method *locator.Method) (bool, error) {
	if m.caps.CanUseRepeatableForm(method.FilePath) {
		return false, nil
	}

	standalone := lo.Filter(method.Annotations, func(a *annotation.Parsed, _ int) bool {
		return a.Name == m.names.Directive
	})
	if len(standalone) == 0 {
		return false, nil
	}

	container, ok := lo.Find(method.Annotations, func(a *annotation.Parsed) bool {
		return a.Name == m.names.Container
	})

	// 先在内存里把所有单条注解折叠成一个容器文本
	var current *annotation.Container
	rest := standalone
	if ok {
		current = annotation.AsContainer(container, true)
	} else {
		current = annotation.NewSyntheticContainer(m.names, rest[0].Raw)
		rest = rest[1:]
	}
	for _, p := range rest {
		merged, err := annotation.BuildMerged(current, &annotation.Directive{Name: p.Name, Raw: p.Raw}, m.names)
		if err != nil {
			return false, err
		}
		current = &annotation.Container{
			Name:      m.names.Container,
			Raw:       merged.Text,
			ArrayForm: strings.Contains(merged.Text, "{"),
			Physical:  false,
			Span:      current.Span,
		}
	}
	text := annotation.RenderComment(current.Raw, method.Indent)

	err := m.host.Mutate(method.FilePath, func(tx editor.Tx) error {
		for _, p := range standalone {
			if err := tx.RemoveLines(p.Span.Start, p.Span.End); err != nil {
				return err
			}
		}
		if ok {
			if err := tx.ReplaceLines(container.Span.Start, container.Span.End, text); err != nil {
				return err
			}
		} else {
			if err := tx.InsertBefore(method.DeclLine, text); err != nil {
				return err
			}
		}
		return tx.ShortenRefs()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
