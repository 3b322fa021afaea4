package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/donutnomad/mapgen/annotation"
	"github.com/donutnomad/mapgen/capability"
	"github.com/donutnomad/mapgen/config"
	"github.com/donutnomad/mapgen/editor"
	"github.com/donutnomad/mapgen/locator"
	"github.com/donutnomad/mapgen/merger"
)

var (
	verbose    = flag.Bool("v", false, "详细输出")
	help       = flag.Bool("h", false, "显示帮助信息")
	file       = flag.String("file", "", "目标源文件（留空时在扫描路径下查找方法）")
	methodName = flag.String("method", "", "目标方法名，支持 Type.Method 写法")
	source     = flag.String("source", "", "映射来源字段")
	target     = flag.String("target", "", "映射目标字段")
	ignore     = flag.Bool("ignore", false, "目标字段标记为忽略")
	dryRun     = flag.Bool("dry-run", false, "只打印 diff，不修改文件")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch cmd := args[0]; cmd {
	case "add":
		runAdd(args[1:])
	case "fix":
		runFix(args[1:])
	case "undo":
		runUndo()
	case "dev":
		runDev(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "未知子命令: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

// runAdd 向目标方法添加一条映射注解
func runAdd(args []string) {
	if *methodName == "" {
		fatal("必须通过 -method 指定目标方法")
	}
	if *target == "" {
		fatal("必须通过 -target 指定映射目标字段")
	}

	method, err := findMethod(args)
	if err != nil {
		fatal("%v", err)
	}

	cfg, err := config.Load(filepath.Dir(method.FilePath))
	if err != nil {
		fatal("%v", err)
	}
	names := cfg.Names()

	var attrs []annotation.Attr
	if *source != "" {
		attrs = append(attrs, annotation.Attr{Name: "source", Value: *source})
	}
	attrs = append(attrs, annotation.Attr{Name: "target", Value: *target})
	if *ignore {
		attrs = append(attrs, annotation.Attr{Name: "ignore", Value: "true"})
	}
	directive := annotation.NewDirective(names.DirectiveQualified, attrs)

	host := newEditor(names)
	m := merger.New(newChecker(cfg), host, merger.WithNames(names))
	if err := m.AddMapping(method, directive); err != nil {
		fatal("合并注解失败: %v", err)
	}

	if *dryRun {
		fmt.Print(host.Diff(method.FilePath))
		return
	}
	if *verbose {
		fmt.Printf("已更新: %s (%s)\n", method.FilePath, method.Name)
	}
}

// runUndo 撤销最近一次对 -file 的修改
func runUndo() {
	if *file == "" {
		fatal("必须通过 -file 指定要撤销的文件")
	}
	host := editor.NewFileEditor(editor.WithUndoFiles())
	if err := host.Undo(*file); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("已恢复: %s\n", *file)
}

// findMethod 按 -file 或扫描路径定位目标方法
func findMethod(args []string) (*locator.Method, error) {
	if *file != "" {
		return locator.FindInFile(*file, *methodName)
	}
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	return locator.Find(*methodName, patterns...)
}

// newChecker 按配置构造能力检查器
func newChecker(cfg *config.Config) *capability.Checker {
	return capability.NewChecker(
		capability.WithGoThreshold(cfg.GoThreshold),
		capability.WithRuntimeModule(cfg.Runtime),
	)
}

// newEditor 按配置构造文件编辑宿主
func newEditor(names annotation.Names) *editor.FileEditor {
	opts := []editor.EditorOption{
		editor.WithUndoFiles(),
		editor.WithShorten("@"+names.DirectiveQualified, "@"+names.Directive),
		editor.WithShorten("@"+names.ContainerQualified, "@"+names.Container),
	}
	if *dryRun {
		opts = append(opts, editor.WithDryRun())
	}
	return editor.NewFileEditor(opts...)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "错误: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `mapgen - 映射注解合并工具

用法:
  mapgen add -method <Type.Method> -target <字段> [-source <字段>] [-file <路径>] [路径...]
  mapgen fix [路径...]
  mapgen undo -file <路径>
  mapgen dev [路径...]

子命令:
  add    向目标方法添加一条 @Mapping 注解，自动与既有注解合并
  fix    把重复书写的 @Mapping 注解折叠进 @Mappings 容器
  undo   撤销最近一次修改
  dev    监听文件变动，自动执行 fix

选项:
`)
	flag.PrintDefaults()
}
