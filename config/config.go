// Package config 读取包级别的 .mapgen.json 工具配置。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/donutnomad/mapgen/annotation"
	"github.com/donutnomad/mapgen/capability"
)

// FileName 包目录下的配置文件名
const FileName = ".mapgen.json"

// Config 工具配置
// 所有字段都可省略，省略时使用默认值
type Config struct {
	// Mapping 单条映射注解的限定名，如 "mapgen.Mapping"
	Mapping string `json:"mapping"`
	// Mappings 容器注解的限定名
	Mappings string `json:"mappings"`
	// Runtime 映射运行时库的模块路径
	Runtime string `json:"runtime"`
	// GoThreshold 可重复形式要求的最低 go 版本
	GoThreshold string `json:"go"`
}

// Default 默认配置
func Default() *Config {
	names := annotation.DefaultNames()
	return &Config{
		Mapping:     names.DirectiveQualified,
		Mappings:    names.ContainerQualified,
		Runtime:     capability.DefaultRuntimeModule,
		GoThreshold: capability.DefaultGoThreshold,
	}
}

// Load 从 dir 开始逐级向上查找并读取配置文件
// 找不到配置文件时返回默认配置
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := find(dir)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	var overlay Config
	if err := sonic.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("解析配置失败 %s: %w", path, err)
	}

	if overlay.Mapping != "" {
		cfg.Mapping = overlay.Mapping
	}
	if overlay.Mappings != "" {
		cfg.Mappings = overlay.Mappings
	}
	if overlay.Runtime != "" {
		cfg.Runtime = overlay.Runtime
	}
	if overlay.GoThreshold != "" {
		cfg.GoThreshold = overlay.GoThreshold
	}
	return cfg, nil
}

// Names 配置对应的注解名称
func (c *Config) Names() annotation.Names {
	return annotation.Names{
		Directive:          shortName(c.Mapping),
		Container:          shortName(c.Mappings),
		DirectiveQualified: c.Mapping,
		ContainerQualified: c.Mappings,
	}
}

// find 从 dir 逐级向上查找配置文件
func find(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
