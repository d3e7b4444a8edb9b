package types

import (
	"github.com/tidwall/gjson"
)

// GenericResponse wraps a backend answer whose exact structure is not pinned down.
// Statistics and acknowledgement payloads differ between backend versions, so
// the fields are looked up on demand instead of being decoded into a struct.
type GenericResponse struct {
	R gjson.Result
}

// NewGenericResponse parses body, an empty or invalid body yields a response where Exists is false
func NewGenericResponse(body []byte) GenericResponse {
	if !gjson.ValidBytes(body) {
		return GenericResponse{}
	}
	return GenericResponse{R: gjson.ParseBytes(body)}
}

// Data returns the "data" envelope when the backend wrapped its payload in one
func (g GenericResponse) Data() GenericResponse {
	if d := g.R.Get("data"); d.Exists() && d.IsObject() {
		return GenericResponse{R: d}
	}
	return g
}

func (g GenericResponse) Exists() bool {
	return g.R.Exists()
}

// Success reads the "success" flag, responses without one count as successful
func (g GenericResponse) Success() bool {
	if !g.R.Get("success").Exists() {
		return true
	}
	return g.R.Get("success").Bool()
}

func (g GenericResponse) Message() string {
	return g.R.Get("message").String()
}

func (g GenericResponse) String(path string) string {
	return g.R.Get(path).String()
}

func (g GenericResponse) Int(path string) int64 {
	return g.R.Get(path).Int()
}

func (g GenericResponse) Bool(path string) bool {
	return g.R.Get(path).Bool()
}

// IntMap reads an object of counters such as {"PUBLIC": 12, "NATIONAL": 5}
func (g GenericResponse) IntMap(path string) map[string]int64 {
	out := make(map[string]int64)
	g.R.Get(path).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.Int()
		return true
	})
	return out
}

func (g GenericResponse) MarshalJSON() ([]byte, error) {
	if !g.Exists() {
		return []byte("null"), nil
	}
	return []byte(g.R.Raw), nil
}

func (g GenericResponse) IsEqual(b GenericResponse) bool {
	return g.R.Raw == b.R.Raw
}
