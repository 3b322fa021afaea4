// Package capability 判断目标模块能否使用可重复的单条映射注解形式。
//
// 可重复形式要求两个条件同时成立：模块 go.mod 声明的语言版本不低于阈值，
// 且映射运行时库出现在模块的 require 列表中。两者都从模块根目录的
// go.mod 读取，找不到所属模块时保守地按不可用处理。
package capability

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// DefaultGoThreshold 可重复形式要求的最低 go 版本
const DefaultGoThreshold = "1.21"

// DefaultRuntimeModule 映射运行时库的模块路径
const DefaultRuntimeModule = "github.com/donutnomad/mapgen"

// Checker 能力检查器
// 无副作用；同一模块的判定结果按模块根目录缓存
type Checker struct {
	threshold string
	runtime   string

	mu    sync.Mutex
	cache map[string]bool
}

// Option 检查器选项
type Option func(*Checker)

// WithGoThreshold 覆盖最低 go 版本阈值
func WithGoThreshold(v string) Option {
	return func(c *Checker) {
		if v != "" {
			c.threshold = v
		}
	}
}

// WithRuntimeModule 覆盖运行时库模块路径
func WithRuntimeModule(path string) Option {
	return func(c *Checker) {
		if path != "" {
			c.runtime = path
		}
	}
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		threshold: DefaultGoThreshold,
		runtime:   DefaultRuntimeModule,
		cache:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanUseRepeatableForm 判断 path 所属模块能否重复书写单条映射注解
// path 可以是模块内任意文件或目录；找不到所属模块时返回 false
func (c *Checker) CanUseRepeatableForm(path string) bool {
	root := FindModuleRoot(path)
	if root == "" {
		return false
	}

	c.mu.Lock()
	if ok, hit := c.cache[root]; hit {
		c.mu.Unlock()
		return ok
	}
	c.mu.Unlock()

	ok := c.check(root)

	c.mu.Lock()
	c.cache[root] = ok
	c.mu.Unlock()
	return ok
}

func (c *Checker) check(root string) bool {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return false
	}
	mf, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return false
	}
	return goVersionAtLeast(mf, c.threshold) && hasRequire(mf, c.runtime)
}

// FindModuleRoot 从 path 逐级向上查找包含 go.mod 的目录
// 找不到时返回空串
func FindModuleRoot(path string) string {
	dir := path
	if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// goVersionAtLeast 判断 go 指令声明的版本不低于阈值
func goVersionAtLeast(mf *modfile.File, threshold string) bool {
	if mf.Go == nil || mf.Go.Version == "" {
		return false
	}
	return semver.Compare("v"+mf.Go.Version, "v"+threshold) >= 0
}

// hasRequire 判断 require 列表中是否出现目标模块
func hasRequire(mf *modfile.File, module string) bool {
	for _, r := range mf.Require {
		if r.Mod.Path == module {
			return true
		}
	}
	return false
}
