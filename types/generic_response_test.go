package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenericResponse_Data(t *testing.T) {
	wrapped := NewGenericResponse([]byte(`{"success":true,"data":{"year":2025,"totalCount":15}}`))
	assert.Equal(t, int64(15), wrapped.Data().Int("totalCount"))

	plain := NewGenericResponse([]byte(`{"year":2025,"totalCount":9}`))
	assert.Equal(t, int64(9), plain.Data().Int("totalCount"))
}

func TestGenericResponse_IntMap(t *testing.T) {
	g := NewGenericResponse([]byte(`{"typeStatistics":{"PUBLIC":12,"NATIONAL":5}}`))
	assert.Equal(t, map[string]int64{"PUBLIC": 12, "NATIONAL": 5}, g.IntMap("typeStatistics"))
	assert.Empty(t, g.IntMap("monthStatistics"))
}

func TestGenericResponse_Success(t *testing.T) {
	assert.True(t, NewGenericResponse([]byte(`{"message":"ok"}`)).Success())
	assert.False(t, NewGenericResponse([]byte(`{"success":false}`)).Success())
	assert.Equal(t, "ok", NewGenericResponse([]byte(`{"message":"ok"}`)).Message())
}

func TestGenericResponse_Invalid(t *testing.T) {
	g := NewGenericResponse([]byte(`not json`))
	assert.False(t, g.Exists())

	b, err := g.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
