package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/dgallion1/testgest/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parserOpts = parser.Options{}

const sampleSpec = `第1章 功能需求
1.1 挂R档时控制倒车灯点亮
1.2 检测到故障保护动作
第2章 CAN信号
灯控信号: 倒车灯，message:LampMsg
`

const sampleMatrix = `信号名称,消息名称,起始位,位长度,比例因子,偏置,单位,最小值,最大值
VCU_ActGear,VCU_1,0,4,1,0,,0,15
灯控信号,BCM_1,8,1,1,0,,0,1
`

func sampleInput() Input {
	return Input{
		SpecName:   "spec.txt",
		Spec:       []byte(sampleSpec),
		MatrixName: "matrix.csv",
		Matrix:     []byte(sampleMatrix),
	}
}

func TestExtract(t *testing.T) {
	e, err := Extract(sampleInput(), parserOpts)
	require.NoError(t, err)

	assert.Equal(t, "spec", e.Title)
	assert.Equal(t, 1, e.Pages)
	assert.Equal(t, ContentHashHex([]byte(sampleSpec)), e.ContentHash)

	require.Len(t, e.Requirements, 2)
	assert.Equal(t, "1.1", e.Requirements[0].ID)
	assert.Equal(t, model.TypeControl, e.Requirements[0].Type)
	assert.Equal(t, "1.2", e.Requirements[1].ID)
	assert.Equal(t, model.TypeProtection, e.Requirements[1].Type)

	require.Len(t, e.Signals, 2)
	assert.Equal(t, model.CanonicalSignal{
		MessageName: "VCU_1", StartBit: "0", BitLength: "4", Factor: "1", Offset: "0", ValueRange: "0~15",
	}, e.Signals["VCU_ActGear"])

	// Document signals replace matrix rows of the same name.
	props, ok := e.Signals["灯控信号"].(model.Properties)
	require.True(t, ok, "document definition should win")
	assert.Equal(t, "LampMsg", props["message"])
	assert.Len(t, e.DocumentSignals, 1)
}

func TestExtract_MissingInputs(t *testing.T) {
	in := sampleInput()
	in.Spec = nil
	_, err := Extract(in, parserOpts)
	var missing *model.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "document", missing.Kind)

	in = sampleInput()
	in.Matrix = nil
	_, err = Extract(in, parserOpts)
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "matrix", missing.Kind)
}

func TestExtract_UnsupportedFormats(t *testing.T) {
	in := sampleInput()
	in.SpecName = "spec.odt"
	_, err := Extract(in, parserOpts)
	assert.ErrorContains(t, err, "unsupported file extension")

	in = sampleInput()
	in.MatrixName = "matrix.dbc"
	_, err = Extract(in, parserOpts)
	assert.ErrorContains(t, err, "unsupported matrix extension")
}

func TestExtract_NoRequirements(t *testing.T) {
	in := sampleInput()
	in.Spec = []byte("no headings here\njust prose\n")
	e, err := Extract(in, parserOpts)
	require.NoError(t, err)
	assert.Empty(t, e.Sections)
	assert.Empty(t, e.Requirements)
	assert.Len(t, e.Signals, 2)
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "功能规范-第七章.txt")
	mat := filepath.Join(dir, "CAN信号矩阵-第七章.csv")
	require.NoError(t, os.WriteFile(spec, []byte(sampleSpec), 0o644))

	_, err := LoadInput(spec, mat)
	var missing *model.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "matrix", missing.Kind)
	assert.Equal(t, mat, missing.Path)

	require.NoError(t, os.WriteFile(mat, []byte(sampleMatrix), 0o644))
	in, err := LoadInput(spec, mat)
	require.NoError(t, err)
	assert.Equal(t, "功能规范-第七章.txt", in.SpecName)
	assert.Equal(t, "CAN信号矩阵-第七章.csv", in.MatrixName)
	assert.Equal(t, sampleSpec, string(in.Spec))

	_, err = LoadInput("", mat)
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "document", missing.Kind)
}
