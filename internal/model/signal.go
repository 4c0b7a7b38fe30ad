package model

import "sort"

// Signal is an entry of a SignalDict: either a CanonicalSignal read from the
// signal matrix or loose Properties scraped from document prose.
type Signal interface {
	Fields() map[string]string
}

// Properties are free-text key/value pairs attached to one signal name.
type Properties map[string]string

func (p Properties) Fields() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// CanonicalSignal is one row of the CAN signal matrix.
type CanonicalSignal struct {
	MessageName string `json:"message_name"`
	StartBit    string `json:"start_bit"`
	BitLength   string `json:"bit_length"`
	Factor      string `json:"factor"`
	Offset      string `json:"offset"`
	Unit        string `json:"unit"`
	ValueRange  string `json:"value_range"` // "min~max", cells taken verbatim
}

func (s CanonicalSignal) Fields() map[string]string {
	return map[string]string{
		"message_name": s.MessageName,
		"start_bit":    s.StartBit,
		"bit_length":   s.BitLength,
		"factor":       s.Factor,
		"offset":       s.Offset,
		"unit":         s.Unit,
		"value_range":  s.ValueRange,
	}
}

// SignalDict maps a case-sensitive signal name to its definition.
type SignalDict map[string]Signal

// Merge copies every entry of src into d. Entries already in d are replaced
// whole; fields are never combined.
func (d SignalDict) Merge(src SignalDict) {
	for name, sig := range src {
		d[name] = sig
	}
}

// Names returns the signal names in sorted order.
func (d SignalDict) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
