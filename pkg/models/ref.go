package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref is a foreign key as the backend sends it: sometimes a number, sometimes a
// string. The empty Ref means "no reference".
type Ref string

func RefFromID(id int) Ref {
	if id == 0 {
		return ""
	}
	return Ref(strconv.Itoa(id))
}

func (r Ref) IsZero() bool {
	return r == ""
}

func (r Ref) String() string {
	return string(r)
}

// ID returns the numeric value of the reference, or 0 when it is absent or not numeric.
func (r Ref) ID() int {
	id, err := strconv.Atoi(string(r))
	if err != nil {
		return 0
	}
	return id
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	// Only canonical integers go out as numbers; "007" or "+5" stay strings.
	if n, err := strconv.Atoi(string(r)); err == nil && strconv.Itoa(n) == string(r) {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reference must be a number or a string: %w", err)
	}
	*r = Ref(n.String())
	return nil
}
