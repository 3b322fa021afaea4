// Package locator 在源码树中定位待添加映射注解的方法声明。
//
// 与扫描器一样采用两阶段策略：先做快速文本匹配缩小文件范围，
// 再对命中的文件做 AST 解析。方法可以是包级函数、带接收者的方法
// 或接口方法，注解一律取自其文档注释。
package locator

import (
	"bufio"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/donutnomad/mapgen/annotation"
)

// Method 待添加映射注解的方法声明
// 核心只读取它，创建与销毁都归源文件所有
type Method struct {
	Name        string
	Receiver    string // 接收者类型名或所属接口名，包级函数为空
	PackageName string
	FilePath    string
	DeclLine    int    // 声明行（0 起始），新注解插入在它之前
	Indent      string // 声明行缩进，渲染注释行时复用
	Annotations []*annotation.Parsed
}

// FindInFile 在单个文件中查找名为 name 的方法
// name 支持 "Method" 与 "Type.Method" 两种写法；命中多个时报错
func FindInFile(path, name string) (*Method, error) {
	methods, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	owner, short := splitName(name)
	matched := lo.Filter(methods, func(m *Method, _ int) bool {
		if m.Name != short {
			return false
		}
		return owner == "" || m.Receiver == owner
	})

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("未找到方法: %s", name)
	case 1:
		return matched[0], nil
	default:
		return nil, fmt.Errorf("方法名不唯一: %s (命中 %d 个，请使用 Type.Method 写法)", name, len(matched))
	}
}

// Find 在 patterns 指定的文件或目录下查找名为 name 的方法
// 目录模式支持 "dir/..." 递归写法
func Find(name string, patterns ...string) (*Method, error) {
	files, err := collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	_, short := splitName(name)
	var found *Method
	for _, file := range files {
		ok, err := quickMatch(file, short)
		if err != nil || !ok {
			continue
		}
		m, err := FindInFile(file, name)
		if err != nil {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("方法名不唯一: %s (%s 与 %s 中都有定义)", name, found.FilePath, file)
		}
		found = m
	}
	if found == nil {
		return nil, fmt.Errorf("未找到方法: %s", name)
	}
	return found, nil
}

// ListAnnotated 列出文件中带映射注解的全部方法
func ListAnnotated(path string, names annotation.Names) ([]*Method, error) {
	methods, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	return lo.Filter(methods, func(m *Method, _ int) bool {
		return lo.SomeBy(m.Annotations, func(a *annotation.Parsed) bool {
			return a.Name == names.Directive || a.Name == names.Container
		})
	}), nil
}

// Files 返回 patterns 下将被扫描的 .go 文件列表
func Files(patterns ...string) ([]string, error) {
	return collectFiles(patterns)
}

// splitName 拆分 "Type.Method" 写法
func splitName(name string) (owner, short string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// quickMatch 快速检查文件文本中是否出现方法名
func quickMatch(path, short string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), short) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// parseFile AST 解析单个文件，抽出所有方法声明
func parseFile(path string) ([]*Method, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	lines := strings.Split(string(content), "\n")

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析文件失败: %w", err)
	}

	var methods []*Method
	add := func(name, receiver string, declPos token.Pos, doc *ast.CommentGroup) {
		declLine := fset.Position(declPos).Line - 1
		m := &Method{
			Name:        name,
			Receiver:    receiver,
			PackageName: file.Name.Name,
			FilePath:    path,
			DeclLine:    declLine,
			Indent:      indentOf(lines, declLine),
		}
		if doc != nil {
			start := fset.Position(doc.Pos()).Line - 1
			end := fset.Position(doc.End()).Line - 1
			if start >= 0 && end < len(lines) {
				m.Annotations = annotation.ParseDoc(lines[start:end+1], start)
			}
		}
		methods = append(methods, m)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			receiver := ""
			if d.Recv != nil && len(d.Recv.List) > 0 {
				receiver = receiverTypeName(d.Recv.List[0].Type)
			}
			add(d.Name.Name, receiver, d.Pos(), d.Doc)
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				iface, ok := typeSpec.Type.(*ast.InterfaceType)
				if !ok || iface.Methods == nil {
					continue
				}
				for _, field := range iface.Methods.List {
					// 嵌入接口没有 Names，跳过
					for _, fieldName := range field.Names {
						add(fieldName.Name, typeSpec.Name.Name, field.Pos(), field.Doc)
					}
				}
			}
		}
	}
	return methods, nil
}

// receiverTypeName 取接收者的类型名
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

// indentOf 取 line 行的缩进
func indentOf(lines []string, line int) string {
	if line < 0 || line >= len(lines) {
		return ""
	}
	text := lines[line]
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

// collectFiles 收集需要扫描的 .go 文件
// 支持文件路径、目录路径与 "dir/..." 递归模式
func collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		if recursive {
			pattern = strings.TrimSuffix(pattern, "/...")
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") && !seen[absPath] {
				seen[absPath] = true
				files = append(files, absPath)
			}
			continue
		}

		err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				name := info.Name()
				if strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata" {
					return filepath.SkipDir
				}
				if !recursive && path != absPath {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
