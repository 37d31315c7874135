package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		value   float64
		raw     string
		invalid bool
	}{
		{"integer", `1536`, 1536, "1536", false},
		{"float", `1.5`, 1.5, "1.5", false},
		{"numeric string", `"2048"`, 2048, "2048", false},
		{"text", `"abc"`, 0, "abc", true},
		{"null", `null`, 0, "", false},
		{"empty string", `""`, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.value, n.Float())
			assert.Equal(t, tt.raw, n.String())
			assert.Equal(t, tt.invalid, n.Invalid)
		})
	}
}

func TestNumber_InStruct(t *testing.T) {
	var slots []HistoryItem
	data := `[
		{"name": "a", "nzo_id": "1", "status": "Completed", "size": "12.5", "completed": 1700000000},
		{"name": "b", "nzo_id": "2", "status": "Failed", "size": "n/a", "completed": "soon"},
		{"name": "c", "nzo_id": "3", "status": "Failed"}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &slots))
	require.Len(t, slots, 3)

	assert.Equal(t, 12.5, slots[0].Size.Float())
	ts, ok := slots[0].Completed.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	assert.True(t, slots[1].Size.Invalid)
	_, ok = slots[1].Completed.Int()
	assert.False(t, ok)

	assert.Equal(t, 0.0, slots[2].Size.Float())
	_, ok = slots[2].Completed.Int()
	assert.False(t, ok)
}

func TestNumber_Int(t *testing.T) {
	_, ok := NumberOf("1700000000.5").Int()
	assert.False(t, ok, "quoted non-integers are not integral")

	v, ok := NumberOf("1700000000").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), v)

	v, ok = NumberOf(int64(42)).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestNumberOf(t *testing.T) {
	assert.Equal(t, 3.0, NumberOf(3).Float())
	assert.Equal(t, 2.5, NumberOf(2.5).Float())
	assert.True(t, NumberOf("abc").Invalid)
	assert.Equal(t, Number{}, NumberOf(nil))
	assert.True(t, NumberOf(true).Invalid)
}
