package docparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/testgest/internal/model"
)

func TestParse_EndToEnd(t *testing.T) {
	text := "第1章 功能需求\n1.1 挂R档时控制倒车灯点亮\n第2章 CAN信号\n灯控信号: 倒车灯，message:LampMsg，开关:ON"
	res := Parse(text)

	require.Len(t, res.Requirements, 1)
	req := res.Requirements[0]
	assert.Equal(t, "1.1", req.ID)
	assert.True(t, strings.Contains(req.Description, "挂R档时控制倒车灯点亮"))
	assert.Equal(t, model.TypeControl, req.Type)

	require.Len(t, res.Signals, 1)
	props, ok := res.Signals["灯控信号"].(model.Properties)
	require.True(t, ok)
	assert.Equal(t, "LampMsg", props["message"])
	assert.Equal(t, "ON", props["开关"])
}

func TestParse_Routing(t *testing.T) {
	tests := []struct {
		section model.Section
		want    Kind
	}{
		{model.Section{Title: "第1章 功能需求"}, KindRequirements},
		{model.Section{Title: "第3章 工作条件"}, KindRequirements},
		{model.Section{Title: "Chapter 4 Specification"}, KindRequirements},
		{model.Section{Title: "第2章 CAN信号"}, KindSignals},
		{model.Section{Title: "Chapter 5 Signal list"}, KindSignals},
		{model.Section{Title: "第6章 信号规范"}, KindRequirements},
		{model.Section{Title: "第9章 附录"}, KindNone},
		{model.Section{Title: "1.1 倒车灯", Chapter: "第1章 功能需求"}, KindRequirements},
		{model.Section{Title: "2.1 车身", Chapter: "第2章 CAN信号"}, KindSignals},
		{model.Section{Title: "2.1 scanner", Chapter: ""}, KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.section.Title, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionKind(tt.section))
		})
	}
}

func TestParse_SignalsMergedAcrossSections(t *testing.T) {
	text := "第2章 CAN信号\nA信号: k:1\n第3章 CAN信号补充\nA信号: k:2\nB信号: m:3"
	res := Parse(text)
	assert.Equal(t, model.SignalDict{
		"A信号": model.Properties{"k": "2"},
		"B信号": model.Properties{"m": "3"},
	}, res.Signals)
}

func TestParse_Idempotent(t *testing.T) {
	text := "第1章 功能需求\n1.1 挂R档\n1.2 监测电压\nECU_001 过压保护\n第2章 CAN信号\nA信号: k:1"
	first := Parse(text)
	second := Parse(text)
	assert.Equal(t, first, second)
	assert.Len(t, first.Requirements, 3)
}

func TestParse_IDsInsideLines(t *testing.T) {
	res := Parse("第1章 功能需求\n编号 ECU_001 上电自检\n说明：1.2 挂R档时控制倒车灯")

	require.Len(t, res.Sections, 2)
	assert.Equal(t, "1.2 挂R档时控制倒车灯", res.Sections[1].Title)
	assert.Equal(t, "第1章 功能需求", res.Sections[1].Chapter)

	require.Len(t, res.Requirements, 2)
	assert.Equal(t, "ECU_001", res.Requirements[0].ID)
	assert.Equal(t, "1.2", res.Requirements[1].ID)
}

func TestParse_NoHeadings(t *testing.T) {
	res := Parse("1 no headings here\njust text")
	assert.Empty(t, res.Sections)
	assert.Empty(t, res.Requirements)
	assert.Empty(t, res.Signals)
}
