package tuitest

import (
	"bytes"
	"io"
)

// query is a terminal request the harness answers on behalf of a real
// terminal, so programs probing cursor position or colors do not stall.
type query struct {
	pattern  []byte
	response []byte
}

var queries = []query{
	{pattern: []byte("\x1b[6n"), response: []byte("\x1b[1;1R")},
	{pattern: []byte("\x1b]10;?\x07"), response: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{pattern: []byte("\x1b]10;?\x1b\\"), response: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{pattern: []byte("\x1b]11;?\x07"), response: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{pattern: []byte("\x1b]11;?\x1b\\"), response: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// tailSize is how much output is kept between reads to catch queries that
// span chunks.
const tailSize = 64

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 4*tailSize)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > 4*tailSize {
		tr.buf = tr.buf[len(tr.buf)-tailSize:]
	}
}

// answerNext replies to the earliest pending query in the buffer and drops
// everything up to it.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, -1
	for i, q := range queries {
		idx := bytes.Index(tr.buf, q.pattern)
		if idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := queries[first]
	tr.buf = tr.buf[at+len(q.pattern):]
	_, _ = tr.w.Write(q.response)
	return true
}
