package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/donutnomad/mapgen/config"
	"github.com/donutnomad/mapgen/locator"
	"github.com/donutnomad/mapgen/merger"
)

// runFix 把扫描路径下重复书写的单条注解折叠进容器
func runFix(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	total, failed, err := fixPaths(patterns)
	if err != nil {
		fatal("%v", err)
	}
	if *dryRun {
		return
	}
	fmt.Printf("折叠完成: %d 个方法\n", total)
	if failed > 0 {
		os.Exit(1)
	}
}

// fixPaths 对 patterns 下的所有文件执行折叠
// 返回修改的方法数与处理失败的文件数
func fixPaths(patterns []string) (total, failed int, err error) {
	files, err := locator.Files(patterns...)
	if err != nil {
		return 0, 0, err
	}

	for _, f := range files {
		n, err := fixFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "错误: %s: %v\n", f, err)
			failed++
			continue
		}
		total += n
	}
	return total, failed, nil
}

// fixFile 对单个文件执行折叠，返回修改的方法数
// 每折叠一个方法后行号会变化，重新解析再继续
func fixFile(path string) (int, error) {
	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return 0, err
	}
	names := cfg.Names()

	host := newEditor(names)
	mg := merger.New(newChecker(cfg), host, merger.WithNames(names))

	n := 0
	for {
		methods, err := locator.ListAnnotated(path, names)
		if err != nil {
			return n, err
		}

		changed := false
		for _, m := range methods {
			ok, err := mg.FoldStandalone(m)
			if err != nil {
				return n, err
			}
			if ok {
				n++
				changed = true
				if *verbose {
					fmt.Printf("折叠: %s (%s)\n", path, m.Name)
				}
				if *dryRun {
					fmt.Print(host.Diff(path))
					return n, nil // dry-run 不落盘，行号不会变化，避免死循环
				}
				break
			}
		}
		if !changed {
			return n, nil
		}
	}
}
