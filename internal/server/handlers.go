package server

import (
	"net/http"
	"strconv"
	"strings"

	"plates/internal/code"
)

type fieldInfo struct {
	Kind  string `json:"kind"`
	Width int    `json:"width"`
}

type patternInfo struct {
	Name   string      `json:"name"`
	Layout string      `json:"layout"`
	Fields []fieldInfo `json:"fields"`
	Max    uint64      `json:"max"`
	Prime  uint64      `json:"prime"`
	Rounds int         `json:"rounds"`
}

func catalogue() []patternInfo {
	var out []patternInfo
	for _, p := range code.Patterns() {
		s := p.Scheme()
		info := patternInfo{
			Name:   s.Name(),
			Layout: s.Layout(),
			Max:    s.Max(),
			Prime:  s.Prime(),
			Rounds: s.Rounds(),
		}
		for _, f := range s.Fields() {
			info.Fields = append(info.Fields, fieldInfo{Kind: f.Kind.String(), Width: f.Width})
		}
		out = append(out, info)
	}
	return out
}

type codeResponse struct {
	Pattern  string   `json:"pattern"`
	Value    uint64   `json:"value"`
	Code     string   `json:"code"`
	Fields   []string `json:"fields"`
	Permuted bool     `json:"permuted"`
}

// encodeHandler turns the value in the path into a code. When permuted is
// set the value goes through the pattern's permutation first.
func encodeHandler(permuted bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r)
		if !ok {
			return
		}

		raw := r.PathValue("value")
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, &code.Error{
				Pattern: s.Name(),
				Value:   raw,
				Err:     code.ErrFormat,
				Detail:  "value must be a non-negative integer",
			})
			return
		}

		var fields []string
		if permuted {
			fields, err = s.Obfuscate(value)
		} else {
			fields, err = s.Encode(value)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, codeResponse{
			Pattern:  s.Name(),
			Value:    value,
			Code:     code.Join(fields),
			Fields:   fields,
			Permuted: permuted,
		})
	})
}

// decodeHandler is the inverse of encodeHandler. The code is accepted
// joined ("SH947KU") or with fields separated by dashes ("SH-947-KU").
func decodeHandler(permuted bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r)
		if !ok {
			return
		}

		fields, err := splitCode(s, r.PathValue("code"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		var value uint64
		if permuted {
			value, err = s.Reveal(fields)
		} else {
			value, err = s.Decode(fields)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, codeResponse{
			Pattern:  s.Name(),
			Value:    value,
			Code:     code.Join(fields),
			Fields:   fields,
			Permuted: permuted,
		})
	})
}

func splitCode(s *code.Scheme, raw string) ([]string, error) {
	if strings.Contains(raw, "-") {
		return strings.Split(strings.ToUpper(raw), "-"), nil
	}
	return s.Split(raw)
}
