package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"golang.org/x/tools/imports"

	"github.com/donutnomad/mapgen/locator"
)

// devDebounce 同一目录两次折叠之间的防抖动间隔
const devDebounce = 2 * time.Second

// devRunner 处理文件变动的核心逻辑
type devRunner struct {
	watcher *fsnotify.Watcher
	ctx     context.Context

	// 防抖动相关
	mu          sync.Mutex
	pendingDirs map[string]*time.Timer // key: 包目录路径
}

// runDev 启动监听模式：文件变动后自动执行 fix
func runDev(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n正在退出...")
		cancel()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatal("创建文件监听器失败: %v", err)
	}
	defer watcher.Close()

	dirs, err := collectWatchDirs(patterns)
	if err != nil {
		fatal("收集监听目录失败: %v", err)
	}
	if len(dirs) == 0 {
		fatal("没有找到需要监听的目录")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fatal("添加监听目录失败 %s: %v", dir, err)
		}
		if *verbose {
			fmt.Printf("监听目录: %s\n", dir)
		}
	}

	fmt.Printf("监听模式已启动，监听 %d 个目录\n", len(dirs))
	fmt.Println("按 Ctrl+C 退出")

	runner := &devRunner{
		watcher:     watcher,
		ctx:         ctx,
		pendingDirs: make(map[string]*time.Timer),
	}
	defer func() {
		runner.mu.Lock()
		for _, timer := range runner.pendingDirs {
			timer.Stop()
		}
		runner.mu.Unlock()
	}()

	runner.watchLoop(ctx)
}

// watchLoop 事件处理循环
func (r *devRunner) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			if *verbose {
				fmt.Printf("监听错误: %v\n", err)
			}
		}
	}
}

// handleEvent 处理文件事件
func (r *devRunner) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name
	if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
		return
	}
	if *verbose {
		fmt.Printf("检测到文件变化: %s\n", path)
	}

	// 变动的文件有语法错误时先跳过，等用户改完
	if err := checkSyntax(path); err != nil {
		if *verbose {
			fmt.Printf("语法错误 %s: %v\n", path, err)
		}
		return
	}
	r.scheduleFix(filepath.Dir(path))
}

// scheduleFix 防抖动调度折叠
func (r *devRunner) scheduleFix(pkgDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, exists := r.pendingDirs[pkgDir]; exists {
		timer.Stop()
	}
	r.pendingDirs[pkgDir] = time.AfterFunc(devDebounce, func() {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		if n, _, err := fixPaths([]string{pkgDir}); err != nil {
			fmt.Printf("折叠失败 %s: %v\n", pkgDir, err)
		} else if n > 0 {
			fmt.Printf("折叠完成: %s (%d 个方法)\n", pkgDir, n)
		}

		r.mu.Lock()
		delete(r.pendingDirs, pkgDir)
		r.mu.Unlock()
	})
}

// checkSyntax 只做语法检查，不修改文件
func checkSyntax(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = imports.Process(path, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true,
	})
	return err
}

// collectWatchDirs 收集所有需要监听的目录
func collectWatchDirs(patterns []string) ([]string, error) {
	files, err := locator.Files(patterns...)
	if err != nil {
		return nil, err
	}
	return lo.Uniq(lo.Map(files, func(f string, _ int) string {
		return filepath.Dir(f)
	})), nil
}
