package capability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeModule 构造一个带 go.mod 的临时模块，返回模块内一个源文件路径
func writeModule(t *testing.T, gomod string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644))

	sub := filepath.Join(dir, "internal", "mapper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	file := filepath.Join(sub, "mapper.go")
	require.NoError(t, os.WriteFile(file, []byte("package mapper\n"), 0o644))
	return file
}

func TestCanUseRepeatableForm(t *testing.T) {
	tests := []struct {
		name     string
		gomod    string
		expected bool
	}{
		{
			name: "版本达标且带运行时库",
			gomod: "module example.com/demo\n\ngo 1.22\n\nrequire github.com/donutnomad/mapgen v0.1.0\n",
			expected: true,
		},
		{
			name: "版本过低",
			gomod: "module example.com/demo\n\ngo 1.20\n\nrequire github.com/donutnomad/mapgen v0.1.0\n",
			expected: false,
		},
		{
			name: "缺少运行时库",
			gomod: "module example.com/demo\n\ngo 1.22\n",
			expected: false,
		},
		{
			name: "没有 go 指令",
			gomod: "module example.com/demo\n\nrequire github.com/donutnomad/mapgen v0.1.0\n",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeModule(t, tt.gomod)
			checker := NewChecker()
			assert.Equal(t, tt.expected, checker.CanUseRepeatableForm(file))
		})
	}
}

func TestCanUseRepeatableFormNoModule(t *testing.T) {
	// 找不到所属模块时保守返回 false，不报错
	dir := t.TempDir()
	file := filepath.Join(dir, "orphan.go")
	require.NoError(t, os.WriteFile(file, []byte("package orphan\n"), 0o644))

	checker := NewChecker()
	assert.False(t, checker.CanUseRepeatableForm(file))
}

func TestCanUseRepeatableFormIdempotent(t *testing.T) {
	file := writeModule(t, "module example.com/demo\n\ngo 1.22\n\nrequire github.com/donutnomad/mapgen v0.1.0\n")
	checker := NewChecker()

	first := checker.CanUseRepeatableForm(file)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, checker.CanUseRepeatableForm(file))
	}
}

func TestCheckerOptions(t *testing.T) {
	file := writeModule(t, "module example.com/demo\n\ngo 1.22\n\nrequire example.com/custom-runtime v1.0.0\n")

	assert.False(t, NewChecker().CanUseRepeatableForm(file))
	assert.True(t, NewChecker(WithRuntimeModule("example.com/custom-runtime")).CanUseRepeatableForm(file))
	assert.False(t, NewChecker(
		WithRuntimeModule("example.com/custom-runtime"),
		WithGoThreshold("1.23"),
	).CanUseRepeatableForm(file))
}

func TestFindModuleRoot(t *testing.T) {
	file := writeModule(t, "module example.com/demo\n\ngo 1.22\n")
	root := FindModuleRoot(file)
	require.NotEmpty(t, root)
	assert.FileExists(t, filepath.Join(root, "go.mod"))

	assert.Equal(t, root, FindModuleRoot(filepath.Dir(file)))
}
