package generate

import (
	"strings"
	"testing"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	reqs := []model.Requirement{{ID: "1.1", Description: "挂R档时控制倒车灯点亮 <R>", Type: model.TypeControl}}
	signals := model.SignalDict{
		"VCU_ActGear": model.CanonicalSignal{MessageName: "VCU_1", ValueRange: "0~15"},
		"灯控信号":        model.Properties{"message": "LampMsg"},
	}

	prompt, err := BuildPrompt(reqs, signals)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, SystemPrompt))
	assert.Contains(t, prompt, "【功能规范】")
	assert.Contains(t, prompt, `"description": "挂R档时控制倒车灯点亮 <R>"`)
	assert.Contains(t, prompt, `"type": "Control"`)
	assert.Contains(t, prompt, "【CAN信号矩阵】")
	assert.Contains(t, prompt, `"message_name": "VCU_1"`)
	assert.Contains(t, prompt, `"灯控信号": {`)
	assert.Contains(t, prompt, "【测试用例格式】")
	assert.Contains(t, prompt, "挂R档，倒车灯点亮")
	assert.NotContains(t, prompt, `\u`)
}

func TestBuildPrompt_NilSignals(t *testing.T) {
	prompt, err := BuildPrompt(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "【功能规范】\nnull")
	assert.Contains(t, prompt, "【CAN信号矩阵】\n{}")
}
