// Package seq provides byte-level helpers for preparing raw terminal output
// for replay into an emulator.
package seq

import "bytes"

// ESC is the escape byte that starts terminal control sequences.
const ESC = 0x1b

// queries are terminal query sequences that an emulator answers on sight.
// Replaying them from history would make the emulator answer a second time,
// confusing the remote program (shells issue DA/DSR once at startup and do
// not expect duplicate responses).
var queries = [][]byte{
	{ESC, '[', 'c'},           // DA1: primary device attributes
	{ESC, '[', '0', 'c'},      // DA1, explicit parameter
	{ESC, '[', '>', 'c'},      // DA2: secondary device attributes
	{ESC, '[', '>', '0', 'c'}, // DA2, explicit parameter
	{ESC, '[', '6', 'n'},      // DSR: cursor position report
	{ESC, '[', '5', 'n'},      // DSR: device status
}

// StripQueries removes device-attribute and cursor-position query sequences
// from raw history data. The longer variants are removed first so their
// shorter prefixes do not leave fragments behind.
func StripQueries(data []byte) []byte {
	if !bytes.Contains(data, []byte{ESC, '['}) {
		return data
	}
	for _, q := range [][]byte{queries[3], queries[2], queries[1], queries[0], queries[4], queries[5]} {
		data = bytes.ReplaceAll(data, q, nil)
	}
	return data
}

// TrimToBoundary discards a leading partial fragment so replay starts at a
// line or escape-sequence boundary. A bounded tail read can begin in the
// middle of a multi-byte escape sequence; rendering that fragment corrupts
// the screen. If no boundary is found within lookahead bytes the data is
// returned unchanged, imperfect output being preferable to none.
func TrimToBoundary(data []byte, lookahead int) []byte {
	if len(data) == 0 {
		return data
	}
	if data[0] == ESC || data[0] == '\n' || data[0] == '\r' {
		return data
	}
	window := data
	if lookahead > 0 && lookahead < len(window) {
		window = window[:lookahead]
	}
	for i, b := range window {
		if b == '\n' {
			// Resume after the newline itself.
			return data[i+1:]
		}
		if b == ESC {
			return data[i:]
		}
	}
	return data
}
