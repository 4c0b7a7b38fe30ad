// Package matrix loads a CAN signal matrix into canonical signal records.
package matrix

import (
	"strings"

	"github.com/dgallion1/testgest/internal/model"
)

// CellKind tells how the source stored a cell.
type CellKind int

const (
	CellEmpty  CellKind = iota
	CellText            // entered as text
	CellNumber          // stored as a number, date or boolean
)

// Cell is one table value. Raw is the text exactly as read; numbers are not
// reformatted.
type Cell struct {
	Raw  string
	Kind CellKind
}

// TextCell returns a text cell, or an empty one for blank input.
func TextCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	return Cell{Raw: raw, Kind: CellText}
}

// NumberCell returns a numeric cell, or an empty one for blank input.
func NumberCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	return Cell{Raw: raw, Kind: CellNumber}
}

func (c Cell) String() string { return c.Raw }

// Table is a header row plus data rows, in source order.
type Table struct {
	Header []Cell
	Rows   [][]Cell
}

// Canonical field order. The position doubles as the fallback column index
// used when no header names the field.
const (
	fieldSignalName = iota
	fieldMessageName
	fieldStartBit
	fieldBitLength
	fieldFactor
	fieldOffset
	fieldUnit
	fieldMin
	fieldMax
	numFields
)

// headerAlternatives lists, per canonical field, the header texts that
// identify its column (case-insensitive substring match).
var headerAlternatives = [numFields][]string{
	fieldSignalName:  {"信号名称", "Signal Name", "信号"},
	fieldMessageName: {"消息名称", "Message Name", "消息"},
	fieldStartBit:    {"起始位", "Start Bit", "位起始"},
	fieldBitLength:   {"位长度", "Bit Length", "长度"},
	fieldFactor:      {"比例因子", "Factor", "缩放因子"},
	fieldOffset:      {"偏置", "Offset", "偏移"},
	fieldUnit:        {"单位", "Unit"},
	fieldMin:         {"最小值", "Min Value"},
	fieldMax:         {"最大值", "Max Value"},
}

// resolveColumns maps every canonical field to a column index. A field whose
// header is not found keeps its positional index, which assumes the matrix
// lists columns in canonical order. Empty header cells keep their column:
// compacting the header before indexing would shift every later column
// away from the data rows.
func resolveColumns(header []Cell) [numFields]int {
	var cols [numFields]int
	for field := range numFields {
		cols[field] = field
		if idx, ok := findColumn(header, headerAlternatives[field]); ok {
			cols[field] = idx
		}
	}
	return cols
}

func findColumn(header []Cell, alternatives []string) (int, bool) {
	for idx, cell := range header {
		if cell.Kind == CellEmpty {
			continue
		}
		h := strings.ToLower(cell.Raw)
		for _, alt := range alternatives {
			if strings.Contains(h, strings.ToLower(alt)) {
				return idx, true
			}
		}
	}
	return 0, false
}

// Load builds a signal dictionary from the table and then merges discovered
// on top. Entries in discovered replace matrix entries of the same name
// wholesale, structured fields included. discovered may be nil.
func Load(t Table, discovered model.SignalDict) model.SignalDict {
	signals := model.SignalDict{}
	cols := resolveColumns(t.Header)

	for _, row := range t.Rows {
		if rowEmpty(row) {
			continue
		}
		nameCell := cellAt(row, cols[fieldSignalName])
		if nameCell.Kind != CellText {
			continue
		}
		name := nameCell.Raw
		get := func(field int) string { return cellAt(row, cols[field]).Raw }
		signals[name] = model.CanonicalSignal{
			MessageName: get(fieldMessageName),
			StartBit:    get(fieldStartBit),
			BitLength:   get(fieldBitLength),
			Factor:      get(fieldFactor),
			Offset:      get(fieldOffset),
			Unit:        get(fieldUnit),
			ValueRange:  get(fieldMin) + "~" + get(fieldMax),
		}
	}

	signals.Merge(discovered)
	return signals
}

func rowEmpty(row []Cell) bool {
	for _, c := range row {
		if c.Kind != CellEmpty {
			return false
		}
	}
	return true
}

// cellAt returns an empty cell for indexes past the end of a short row.
func cellAt(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return Cell{}
	}
	return row[idx]
}
