package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON scalar the server may send as a number, a numeric
// string, free text or null. Decoding never fails, so one odd row cannot
// spoil a whole page.
type Number struct {
	Raw    string
	Value  float64
	Quoted bool
	// Invalid is set when Raw is not a number at all.
	Invalid bool
}

// NumberOf coerces common Go values into a Number.
func NumberOf(v any) Number {
	switch t := v.(type) {
	case nil:
		return Number{}
	case Number:
		return t
	case int:
		return Number{Raw: strconv.Itoa(t), Value: float64(t)}
	case int64:
		return Number{Raw: strconv.FormatInt(t, 10), Value: float64(t)}
	case float64:
		return Number{Raw: strconv.FormatFloat(t, 'f', -1, 64), Value: t}
	case string:
		return parseNumber(t, true)
	default:
		return parseNumber(fmt.Sprint(t), false)
	}
}

func parseNumber(s string, quoted bool) Number {
	n := Number{Raw: s, Quoted: quoted}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		n.Invalid = true
		return n
	}
	n.Value = v
	return n
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*n = Number{Raw: s, Invalid: true}
			return nil
		}
		*n = parseNumber(str, true)
		return nil
	}
	*n = parseNumber(s, false)
	return nil
}

// Float is the numeric value, 0 when the raw value is not a number.
func (n Number) Float() float64 {
	if n.Invalid {
		return 0
	}
	return n.Value
}

// Int reports the value as an integer when the server sent one. Quoted
// values must spell an integer; bare JSON numbers are truncated.
func (n Number) Int() (int64, bool) {
	if n.Invalid || n.Raw == "" {
		return 0, false
	}
	if n.Quoted {
		v, err := strconv.ParseInt(strings.TrimSpace(n.Raw), 10, 64)
		return v, err == nil
	}
	return int64(n.Value), true
}

func (n Number) String() string {
	return n.Raw
}
