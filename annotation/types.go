package annotation

import (
	"strings"

	"github.com/spf13/cast"
)

// Names 注解名称配置
// 合成新注解文本时使用限定名（如 mapgen.Mapping），
// 提交阶段再按需缩短为短名
type Names struct {
	Directive          string // 单条映射注解短名，如 "Mapping"
	Container          string // 容器注解短名，如 "Mappings"
	DirectiveQualified string // 单条映射注解限定名，如 "mapgen.Mapping"
	ContainerQualified string // 容器注解限定名，如 "mapgen.Mappings"
}

// DefaultNames 默认注解名称
func DefaultNames() Names {
	return Names{
		Directive:          "Mapping",
		Container:          "Mappings",
		DirectiveQualified: "mapgen.Mapping",
		ContainerQualified: "mapgen.Mappings",
	}
}

// Span 注解在源文件中占据的行号区间，0 起始，闭区间
type Span struct {
	Start int
	End   int
}

// Attr 注解的一个顶层属性
// 对单条映射注解是 name=value 对；对容器注解是内嵌注解的原始片段，
// 此时 Name/Value 为空，只有 Raw 有意义
type Attr struct {
	Name  string
	Value string
	Raw   string // 属性原始文本，合并时逐字复制
}

// Directive 一条新的映射注解（尚未写入源文件）
type Directive struct {
	Name  string
	Attrs []Attr
	Raw   string // 合成后的注解文本
}

// NewDirective 以限定名构造一条新的映射注解
// attrs 的顺序即书写顺序
func NewDirective(qualified string, attrs []Attr) *Directive {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(qualified)
	if len(attrs) > 0 {
		b.WriteByte('(')
		for i, a := range attrs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Name)
			b.WriteString("=`")
			b.WriteString(a.Value)
			b.WriteByte('`')
		}
		b.WriteByte(')')
	}
	return &Directive{
		Name:  shortName(qualified),
		Attrs: attrs,
		Raw:   b.String(),
	}
}

// Container 聚合多条映射注解的容器注解
// ArrayForm 表示文本中带 { } 数组标记；Physical 表示已存在于源文件中，
// 为 false 时是纯内存构造、尚未附加的容器
type Container struct {
	Name      string
	Raw       string
	ArrayForm bool
	Physical  bool
	Attrs     []Attr
	Span      Span
}

// NewSyntheticContainer 构造一个内存中的容器注解
// seed 为需要并入的既有注解文本，无则传空串
func NewSyntheticContainer(names Names, seed string) *Container {
	other := ""
	if seed != "" {
		other = "\n" + seed
	}
	return &Container{
		Name:      names.Container,
		Raw:       "@" + names.ContainerQualified + "({" + other + "\n})",
		ArrayForm: true,
		Physical:  false,
	}
}

// Parsed 从源码注释中解析出的一条注解，可能跨多行
type Parsed struct {
	Name  string // 短名（去掉限定前缀）
	Raw   string // 去除注释前缀后的原始文本，跨行时以 \n 连接
	Args  string // 括号内原始文本，无括号时为空
	Attrs []Attr
	Span  Span
}

// GetAttr 按名称取属性值
func (p *Parsed) GetAttr(name string) string {
	for _, a := range p.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}

// BoolAttr 按名称取布尔属性，缺失或无法转换时返回 false
func (p *Parsed) BoolAttr(name string) bool {
	return cast.ToBool(p.GetAttr(name))
}

// AsContainer 将解析出的注解视为容器注解
func AsContainer(p *Parsed, physical bool) *Container {
	return &Container{
		Name:      p.Name,
		Raw:       p.Raw,
		ArrayForm: strings.Contains(p.Raw, "{"),
		Physical:  physical,
		Attrs:     p.Attrs,
		Span:      p.Span,
	}
}

// shortName 取限定名的最后一段
func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
