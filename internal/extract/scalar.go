package extract

import (
	"bytes"
	"encoding/json"
)

// scalar decodes any JSON value into text. Strings are unquoted, other
// scalars are kept as written and objects or arrays keep their raw form.
type scalar string

func (s *scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = scalar(v)
		return nil
	}
	*s = scalar(trimmed)
	return nil
}

// textEntry accepts either {"text": ...} or a bare value.
type textEntry struct {
	Text scalar `json:"text"`
}

func (e *textEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Text scalar `json:"text"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		e.Text = obj.Text
		return nil
	}
	return e.Text.UnmarshalJSON(trimmed)
}

// textList accepts an array of entries or a single entry.
type textList []textEntry

func (l *textList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var entries []textEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*l = entries
		return nil
	}
	var entry textEntry
	if err := entry.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	*l = textList{entry}
	return nil
}
