package debug

import "fmt"

func getStringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case func() string:
		return s()
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
