package annotation

import (
	"regexp"
	"strings"
)

// annotationRegex 匹配注解起始 @Name，支持限定名 @pkg.Name
var annotationRegex = regexp.MustCompile(`@([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)`)

// paramRegex 匹配属性:
// - key=`value` (反引号格式)
// - key="value" (双引号格式)
// - key=value (普通格式)
var paramRegex = regexp.MustCompile("^(\\w+)\\s*=\\s*`([^`]*)`$|^(\\w+)\\s*=\\s*\"([^\"]*)\"$|^(\\w+)\\s*=\\s*(\\S+)$")

// ParseDoc 从方法文档注释的源文件行中解析注解
// lines 为含注释前缀的原始行，startLine 为第一行在文件中的行号（0 起始）
// 容器注解可以跨多行；内嵌在容器参数里的注解不会单独返回
func ParseDoc(lines []string, startLine int) []*Parsed {
	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = stripComment(l)
	}
	joined := strings.Join(stripped, "\n")

	// 每行在 joined 中的起始偏移，用于把字节偏移换算回行号
	lineStarts := make([]int, len(stripped))
	off := 0
	for i, l := range stripped {
		lineStarts[i] = off
		off += len(l) + 1
	}
	lineOf := func(pos int) int {
		n := 0
		for i, s := range lineStarts {
			if s <= pos {
				n = i
			}
		}
		return startLine + n
	}

	var out []*Parsed
	lastEnd := 0
	for _, m := range annotationRegex.FindAllStringSubmatchIndex(joined, -1) {
		start, nameEnd := m[0], m[1]
		if start < lastEnd {
			continue // 内嵌在上一条注解参数里
		}
		name := joined[m[2]:m[3]]
		end := nameEnd
		args := ""
		if nameEnd < len(joined) && joined[nameEnd] == '(' {
			close := scanBalanced(joined, nameEnd)
			if close < 0 {
				// 括号未闭合，保留剩余全部文本，交由合成阶段判定损坏
				end = len(joined)
				args = joined[nameEnd+1:]
			} else {
				end = close + 1
				args = joined[nameEnd+1 : close]
			}
		}
		lastEnd = end
		out = append(out, &Parsed{
			Name:  shortName(name),
			Raw:   joined[start:end],
			Args:  args,
			Attrs: parseAttrs(args),
			Span:  Span{Start: lineOf(start), End: lineOf(end - 1)},
		})
	}
	return out
}

// ParseText 从一段注释文本解析注解，行号从 0 计
func ParseText(text string) []*Parsed {
	return ParseDoc(strings.Split(text, "\n"), 0)
}

// stripComment 去除行内的注释前后缀
func stripComment(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "//")
	t = strings.TrimPrefix(t, "/*")
	t = strings.TrimSuffix(t, "*/")
	return strings.TrimSpace(t)
}

// scanBalanced 从 s[open]=='(' 起扫描配对的右括号，返回其下标
// 跳过反引号与双引号字符串内部，未闭合返回 -1
func scanBalanced(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '`':
			j = skipUntil(s, j+1, '`')
		case '"':
			j = skipQuoted(s, j+1)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
		if j >= len(s) {
			return -1
		}
	}
	return -1
}

func skipUntil(s string, from int, stop byte) int {
	for j := from; j < len(s); j++ {
		if s[j] == stop {
			return j
		}
	}
	return len(s)
}

func skipQuoted(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return len(s)
}

// parseAttrs 解析注解参数为顶层属性列表
// 数组形式先剥掉外层花括号；切分只在顶层逗号处发生
func parseAttrs(args string) []Attr {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	if strings.HasPrefix(args, "{") && strings.HasSuffix(args, "}") {
		args = strings.TrimSpace(args[1 : len(args)-1])
		if args == "" {
			return nil
		}
	}
	var attrs []Attr
	for _, piece := range splitTopLevel(args) {
		a := Attr{Raw: piece}
		if !strings.HasPrefix(piece, "@") {
			if m := paramRegex.FindStringSubmatch(piece); m != nil {
				switch {
				case m[1] != "":
					a.Name, a.Value = m[1], m[2]
				case m[3] != "":
					a.Name, a.Value = m[3], m[4]
				case m[5] != "":
					a.Name, a.Value = m[5], m[6]
				}
			}
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// splitTopLevel 在括号深度为 0 的逗号处切分
func splitTopLevel(s string) []string {
	var pieces []string
	depth := 0
	last := 0
	for j := 0; j < len(s); j++ {
		switch s[j] {
		case '`':
			j = skipUntil(s, j+1, '`')
		case '"':
			j = skipQuoted(s, j+1)
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, strings.TrimSpace(s[last:j]))
				last = j + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[last:]); rest != "" {
		pieces = append(pieces, rest)
	}
	return pieces
}

// RenderComment 把注解文本渲染为源文件中的注释行
// indent 取声明行的缩进，逐行补 "// " 前缀
func RenderComment(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = indent + "// " + l
	}
	return strings.Join(lines, "\n")
}
