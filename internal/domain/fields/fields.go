package fields

import (
	"bytes"
	"errors"
	"strconv"
)

var ErrInvalidSavedFlag = errors.New("is_saved must be 0, 1, true or false")

// SavedFlag marks a watch-history row as "saved to list". It is stored and
// rendered as the integer 0 or 1.
type SavedFlag int32

const (
	NotSaved SavedFlag = 0
	Saved    SavedFlag = 1
)

func (f SavedFlag) Bool() bool {
	return f == Saved
}

func (f SavedFlag) MarshalJSON() ([]byte, error) {
	if f.Bool() {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *SavedFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "0", "false":
		*f = NotSaved
		return nil
	case "1", "true":
		*f = Saved
		return nil
	}
	if n, err := strconv.ParseFloat(string(data), 64); err == nil {
		switch n {
		case 0:
			*f = NotSaved
			return nil
		case 1:
			*f = Saved
			return nil
		}
	}
	return ErrInvalidSavedFlag
}
