package web

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
)

// formInt reads an integer field from the query string or form body. It
// reports false when the field is absent. Parsing is lenient: an optional
// sign and the leading digits are used, anything else reads as 0. Values
// saturate at the 32-bit range.
func formInt(r *http.Request, name string) (int, bool) {
	if err := r.ParseForm(); err != nil {
		return 0, false
	}
	if !r.Form.Has(name) {
		return 0, false
	}
	return leadingInt(r.Form.Get(name)), true
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt32-d)/10 {
			n = math.MaxInt32
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
