package movies

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Text is a loosely typed JSON scalar read as text.
//
// Strings, numbers, booleans, and null are accepted. Objects and arrays are rejected.
// Numbers read as their shortest decimal form, so 603, 603.0 and 6.03e2 all read "603".
// The raw JSON is kept so it can be echoed back exactly as sent.
type Text struct {
	raw   json.RawMessage
	value string
	set   bool
}

// NewText returns a Text holding the JSON string s.
func NewText(s string) Text {
	raw, _ := json.Marshal(s)
	return Text{raw: raw, value: s, set: s != ""}
}

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	t.raw = append(json.RawMessage(nil), b...)
	t.value, t.set = "", false

	if len(b) == 0 {
		return fmt.Errorf("empty value")
	}

	switch b[0] {
	case 'n':
		return nil
	case '"':
		if err := json.Unmarshal(b, &t.value); err != nil {
			return err
		}
		t.set = t.value != ""
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		t.value, t.set = strconv.FormatBool(v), v
	case '{', '[':
		return fmt.Errorf("expected a string or number, got %s", b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		t.value, t.set = strconv.FormatFloat(f, 'f', -1, 64), f != 0
	}
	return nil
}

// MarshalJSON writes the value as originally sent, or null when absent.
func (t Text) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// Present reports whether the value is truthy: not absent, null, "", 0, or false.
func (t Text) Present() bool { return t.set }

// String returns the text form, or "" when absent.
func (t Text) String() string { return t.value }

// Or returns the text form when present, else fallback.
func (t Text) Or(fallback string) string {
	if t.set {
		return t.value
	}
	return fallback
}

// Payload is the body of a list write.
type Payload struct {
	MovieID     Text            `json:"movieId"`
	Title       Text            `json:"title"`
	Category    Text            `json:"category"`
	Poster      Text            `json:"poster"`
	Overview    Text            `json:"overview"`
	ReleaseDate Text            `json:"releaseDate"`
	Rating      Text            `json:"rating"`
	Votes       Text            `json:"votes"`
	GenreIDs    json.RawMessage `json:"genreIds"`
	Description Text            `json:"description"`
	Source      Text            `json:"source"`
}

// DecodePayload reads one JSON object from r.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, InvalidBody(err)
	}
	return p, nil
}

// genreIDs returns the genre list when sent as a JSON string, else ok is false.
func (p Payload) genreIDs() (string, bool) {
	raw := bytes.TrimSpace(p.GenreIDs)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// missing reports whether any required field is falsy.
func (p Payload) missing() bool {
	return !p.MovieID.Present() || !p.Title.Present() || !p.Category.Present()
}
