package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/testgest/internal/model"
)

// row builds text cells; "" becomes an empty cell.
func row(cells ...string) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = TextCell(c)
	}
	return out
}

func header(cells ...string) []Cell { return row(cells...) }

func TestLoad_HeaderOnly(t *testing.T) {
	table := Table{Header: header("信号名称", "消息名称")}
	assert.Empty(t, Load(table, nil))
}

func TestLoad_ResolvesHeadersInAnyOrder(t *testing.T) {
	table := Table{
		Header: header("Unit", "Max Value", "Min Value", "Signal Name", "Message Name", "Offset", "Factor", "Bit Length", "Start Bit"),
		Rows: [][]Cell{
			row("", "15", "0", "VCU_ActGear", "VCU_0x101", "0", "1", "4", "8"),
		},
	}
	signals := Load(table, nil)
	require.Contains(t, signals, "VCU_ActGear")
	assert.Equal(t, model.CanonicalSignal{
		MessageName: "VCU_0x101",
		StartBit:    "8",
		BitLength:   "4",
		Factor:      "1",
		Offset:      "0",
		Unit:        "",
		ValueRange:  "0~15",
	}, signals["VCU_ActGear"])
}

func TestLoad_CaseInsensitiveSubstringHeaders(t *testing.T) {
	cols := resolveColumns(header("CAN signal name", "TX MESSAGE NAME", "start bit(LSB)"))
	assert.Equal(t, 0, cols[fieldSignalName])
	assert.Equal(t, 1, cols[fieldMessageName])
	assert.Equal(t, 2, cols[fieldStartBit])
}

func TestLoad_PositionalFallback(t *testing.T) {
	table := Table{
		Header: header("a", "b", "c", "d", "e", "f", "g", "h", "i"),
		Rows: [][]Cell{
			row("IGN1_RELAY_FB", "BCM_1", "0", "1", "1", "0", "-", "0", "1"),
		},
	}
	signals := Load(table, nil)
	assert.Equal(t, model.CanonicalSignal{
		MessageName: "BCM_1",
		StartBit:    "0",
		BitLength:   "1",
		Factor:      "1",
		Offset:      "0",
		Unit:        "-",
		ValueRange:  "0~1",
	}, signals["IGN1_RELAY_FB"])
}

func TestLoad_SkipsEmptyAndNamelessRows(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称"),
		Rows: [][]Cell{
			row("", ""),
			{},
			row("", "M1"),
			{NumberCell("42"), TextCell("M2")},
			row("   ", "M3"),
			row("Keep", "M4"),
		},
	}
	signals := Load(table, nil)
	require.Len(t, signals, 1)
	assert.Equal(t, "M4", signals["Keep"].(model.CanonicalSignal).MessageName)
}

func TestLoad_ShortRowsReadAsEmpty(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称", "起始位", "位长度", "比例因子", "偏置", "单位", "最小值", "最大值"),
		Rows:   [][]Cell{row("S1", "M1")},
	}
	sig := Load(table, nil)["S1"].(model.CanonicalSignal)
	assert.Equal(t, "M1", sig.MessageName)
	assert.Equal(t, "~", sig.ValueRange)
}

func TestLoad_DocumentSignalsOverwriteMatrix(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称", "起始位", "位长度", "比例因子", "偏置", "单位", "最小值", "最大值"),
		Rows: [][]Cell{
			row("VCU_ActGear", "M1", "8", "4", "1", "0", "", "0", "15"),
			row("VCU_ActGear_VD", "M1", "12", "1", "1", "0", "", "0", "1"),
		},
	}
	discovered := model.SignalDict{
		"VCU_ActGear": model.Properties{"量程": "0-15"},
		"灯控信号":        model.Properties{"message": "LampMsg"},
	}

	signals := Load(table, discovered)

	require.Len(t, signals, 3)
	assert.Equal(t, model.Properties{"量程": "0-15"}, signals["VCU_ActGear"])
	assert.IsType(t, model.CanonicalSignal{}, signals["VCU_ActGear_VD"])
	assert.Equal(t, model.Properties{"message": "LampMsg"}, signals["灯控信号"])
}

func TestLoad_DuplicateMatrixRowsLastWins(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称"),
		Rows:   [][]Cell{row("S", "first"), row("S", "second")},
	}
	assert.Equal(t, "second", Load(table, nil)["S"].(model.CanonicalSignal).MessageName)
}

func TestLoad_ValuesVerbatim(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称", "起始位", "位长度", "比例因子", "偏置", "单位", "最小值", "最大值"),
		Rows: [][]Cell{
			row("Wiper", "M2", "08", "4", "0.50", "0", "V", "0.0", "1e3"),
		},
	}
	assert.Equal(t, model.CanonicalSignal{
		MessageName: "M2",
		StartBit:    "08",
		BitLength:   "4",
		Factor:      "0.50",
		Offset:      "0",
		Unit:        "V",
		ValueRange:  "0.0~1e3",
	}, Load(table, nil)["Wiper"])
}

func TestLoad_NumericLookingNamesAreText(t *testing.T) {
	table := Table{
		Header: header("信号名称", "消息名称"),
		Rows:   [][]Cell{row("NaN", "M1"), row("Inf", "M2"), row("1e5", "M3")},
	}
	signals := Load(table, nil)
	assert.ElementsMatch(t, []string{"NaN", "Inf", "1e5"}, signals.Names())
}

func TestLoad_EmptyHeaderCellsKeepPosition(t *testing.T) {
	table := Table{
		Header: header("信号名称", "", "消息名称"),
		Rows:   [][]Cell{row("S", "ignored", "M1")},
	}
	assert.Equal(t, "M1", Load(table, nil)["S"].(model.CanonicalSignal).MessageName)
}

func TestTextCell(t *testing.T) {
	assert.Equal(t, Cell{}, TextCell(""))
	assert.Equal(t, Cell{}, TextCell("   "))
	assert.Equal(t, Cell{Raw: "12.50", Kind: CellText}, TextCell("12.50"))
	assert.Equal(t, Cell{Raw: "0x9", Kind: CellText}, TextCell("0x9"))
	assert.Equal(t, Cell{Raw: "8", Kind: CellNumber}, NumberCell("8"))
	assert.Equal(t, "0.125", NumberCell("0.125").String())
}
