package tool

import (
	"bytes"
	"encoding/json"
	"strings"
)

func MinifyJSON(in []byte) []byte {
	dst := &bytes.Buffer{}
	if err := json.Compact(dst, in); err != nil {
		panic(err)
	}
	return dst.Bytes()
}

func IsJSON(in []byte) bool {
	var js json.RawMessage
	return json.Unmarshal(in, &js) == nil
}

// Marshals without escaping <, > and &
func MarshalNoEscape(in interface{}) (out []byte, err error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err = enc.Encode(in)
	if err != nil {
		return
	}

	// Encoder always appends a new line
	out = bytes.TrimRight(buf.Bytes(), "\n")
	return
}

// Compact JSON with object keys sorted. Numbers are kept as written.
func CanonicalJSON(in []byte) (out string, err error) {
	dec := json.NewDecoder(bytes.NewReader(in))
	dec.UseNumber()

	var value interface{}
	err = dec.Decode(&value)
	if err != nil {
		return
	}

	buf, err := MarshalNoEscape(value)
	if err != nil {
		return
	}

	out = strings.TrimSpace(string(unescapeLineSeparators(buf)))
	return
}

// encoding/json always escapes U+2028 and U+2029, JSON.stringify emits them as is.
// Backslashes only occur inside strings, so escape pairs are skipped whole.
func unescapeLineSeparators(in []byte) []byte {
	if !bytes.Contains(in, []byte(`\u202`)) {
		return in
	}

	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i] != '\\' || i+1 >= len(in) {
			out = append(out, in[i])
			continue
		}

		if in[i+1] == 'u' && i+6 <= len(in) {
			switch string(in[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}

		out = append(out, in[i], in[i+1])
		i++
	}
	return out
}
