package tty

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Size is a terminal window size in character cells.
type Size struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Position is a 1-based cursor position.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// CursorPositionRequest asks for a cursor position report (DSR 6).
var CursorPositionRequest = Request{
	Name:   "CPR",
	Seq:    "\x1b[6n",
	Prefix: "\x1b[",
	Suffix: "R",
}

// Geometry returns the window size of the terminal behind fd. A negative fd
// selects the controlling terminal.
func Geometry(fd int) (Size, error) {
	if fd < 0 {
		t, err := Open()
		if err != nil {
			return Size{}, err
		}
		defer t.Close()
		fd = t.Fd()
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return Size{}, fmt.Errorf("querying window size: %w", err)
	}
	return Size{Cols: cols, Rows: rows}, nil
}

// CursorPosition asks the terminal behind t where the cursor is.
func CursorPosition(t *Transport) (Position, error) {
	reply, ok, err := t.Send(CursorPositionRequest)
	if err != nil {
		return Position{}, err
	}
	if !ok {
		return Position{}, fmt.Errorf("%w: no cursor position report", ErrMalformedReply)
	}
	return ParseCursorPosition(reply)
}

// ParseCursorPosition parses the unframed "row;col" body of a cursor
// position report.
func ParseCursorPosition(body string) (Position, error) {
	rowText, colText, found := strings.Cut(body, ";")
	if !found {
		return Position{}, fmt.Errorf("%w: cursor position %q", ErrMalformedReply, body)
	}
	row, err := strconv.Atoi(rowText)
	if err != nil || row < 1 {
		return Position{}, fmt.Errorf("%w: cursor row %q", ErrMalformedReply, rowText)
	}
	col, err := strconv.Atoi(colText)
	if err != nil || col < 1 {
		return Position{}, fmt.Errorf("%w: cursor column %q", ErrMalformedReply, colText)
	}
	return Position{Col: col, Row: row}, nil
}
