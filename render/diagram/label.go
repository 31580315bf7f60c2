package diagram

import (
	"fmt"
	"strings"

	"github.com/syssam/explorer/entity"
)

// MaxValueLength is the number of characters of a value shown in a label.
const MaxValueLength = 70

// ellipsis marks a shortened value.
const ellipsis = " (...)"

// reserved are the characters with a meaning inside record labels.
var reserved = strings.NewReplacer("{", "", "}", "", "<", "", ">", "", "|", "", `\`, "")

// Sanitize removes the characters reserved by record labels: { } < > | \
func Sanitize(s string) string {
	return reserved.Replace(s)
}

// Shorten caps s at MaxValueLength characters followed by a marker.
func Shorten(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxValueLength {
		return s
	}
	return string(runes[:MaxValueLength]) + ellipsis
}

// RecordLabel returns the three-part record label of an entity:
// class name, attribute names and attribute values.
func RecordLabel(class string, attrs entity.Attributes) string {
	values := make([]string, len(attrs))
	for i, a := range attrs {
		values[i] = formatValue(a.Value)
	}
	return fmt.Sprintf("{%s|{%s|%s}}",
		Sanitize(class),
		Sanitize(strings.Join(attrs.Names(), "\n")),
		Sanitize(strings.Join(values, "\n")),
	)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return `"` + Shorten(v) + `"`
	case []byte:
		return `"` + Shorten(string(v)) + `"`
	default:
		return Shorten(fmt.Sprint(v))
	}
}
