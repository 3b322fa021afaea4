package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "simple annotation",
			input:    "// @Mapping",
			expected: 1,
		},
		{
			name:     "annotation with params",
			input:    "// @Mapping(source=`Name`, target=`FullName`)",
			expected: 1,
		},
		{
			name:     "multiple annotations",
			input:    "// @Mapping(target=`A`)\n// @Mapping(target=`B`)",
			expected: 2,
		},
		{
			name:     "qualified name",
			input:    "// @mapgen.Mapping(target=`A`)",
			expected: 1,
		},
		{
			name:     "no annotation",
			input:    "// 这是普通注释",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotations := ParseText(tt.input)
			if len(annotations) != tt.expected {
				t.Errorf("expected %d annotations, got %d", tt.expected, len(annotations))
			}
		})
	}
}

func TestParseTextAttrs(t *testing.T) {
	annotations := ParseText("// @Mapping(source=`Name`, target=\"FullName\", ignore=true)")
	require.Len(t, annotations, 1)

	ann := annotations[0]
	assert.Equal(t, "Mapping", ann.Name)
	assert.Equal(t, "Name", ann.GetAttr("source"))
	assert.Equal(t, "FullName", ann.GetAttr("target"))
	assert.True(t, ann.BoolAttr("ignore"))
	assert.Equal(t, "", ann.GetAttr("missing"))
}

func TestParseQualifiedShortName(t *testing.T) {
	annotations := ParseText("// @mapgen.Mapping(target=`A`)")
	require.Len(t, annotations, 1)
	assert.Equal(t, "Mapping", annotations[0].Name)
	assert.Equal(t, "@mapgen.Mapping(target=`A`)", annotations[0].Raw)
}

func TestParseDocMultilineContainer(t *testing.T) {
	lines := []string{
		"// @Mappings({",
		"// @Mapping(source=`a`, target=`b`),",
		"// @Mapping(source=`c`, target=`d`)",
		"// })",
	}
	annotations := ParseDoc(lines, 10)
	require.Len(t, annotations, 1)

	ann := annotations[0]
	assert.Equal(t, "Mappings", ann.Name)
	// 内嵌的 @Mapping 不单独返回，跨行 Raw 以 \n 连接
	assert.Equal(t, Span{Start: 10, End: 13}, ann.Span)
	assert.Contains(t, ann.Raw, "@Mapping(source=`a`, target=`b`),\n@Mapping(source=`c`, target=`d`)")

	require.Len(t, ann.Attrs, 2)
	assert.Equal(t, "@Mapping(source=`a`, target=`b`)", ann.Attrs[0].Raw)
	assert.Equal(t, "@Mapping(source=`c`, target=`d`)", ann.Attrs[1].Raw)
}

func TestParseDocSingleFormContainer(t *testing.T) {
	annotations := ParseText("// @Mappings(@Mapping(source=`a`, target=`b`))")
	require.Len(t, annotations, 1)

	ann := annotations[0]
	assert.False(t, strings.Contains(ann.Raw, "{"))
	require.Len(t, ann.Attrs, 1)
	assert.Equal(t, "@Mapping(source=`a`, target=`b`)", ann.Attrs[0].Raw)
}

func TestParseUnclosedParen(t *testing.T) {
	// 括号未闭合时保留剩余全部文本，损坏判定留给合成阶段
	annotations := ParseText("// @Mappings({@Mapping(source=`a`, target=`b`)")
	require.Len(t, annotations, 1)
	assert.Equal(t, "@Mappings({@Mapping(source=`a`, target=`b`)", annotations[0].Raw)
}

func TestParseValueWithParens(t *testing.T) {
	// 反引号里的括号与逗号不参与配对和切分
	annotations := ParseText("// @Mapping(expression=`concat(a, b)`, target=`X`)")
	require.Len(t, annotations, 1)

	ann := annotations[0]
	assert.Equal(t, "concat(a, b)", ann.GetAttr("expression"))
	assert.Equal(t, "X", ann.GetAttr("target"))
}

func TestNewDirective(t *testing.T) {
	d := NewDirective("mapgen.Mapping", []Attr{
		{Name: "source", Value: "Name"},
		{Name: "target", Value: "FullName"},
	})
	assert.Equal(t, "Mapping", d.Name)
	assert.Equal(t, "@mapgen.Mapping(source=`Name`, target=`FullName`)", d.Raw)
}

func TestRenderComment(t *testing.T) {
	text := "@Mappings({\n@Mapping(target=`a`)\n})"
	rendered := RenderComment(text, "\t")
	assert.Equal(t, "\t// @Mappings({\n\t// @Mapping(target=`a`)\n\t// })", rendered)
}
