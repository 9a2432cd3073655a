package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const indentUnit = "  "

var (
	keyColor    = color.New(color.FgCyan)
	stringColor = color.New(color.FgGreen)
	numberColor = color.New(color.FgYellow)
	boolColor   = color.New(color.FgMagenta)
	nullColor   = color.New(color.FgHiBlack)
)

// Colorize renders a decoded document as indented JSON with ANSI colors.
// Document key order is preserved; ObjectIDs print as hex strings and BSON
// dates as ISO-8601 strings.
func Colorize(v any) string {
	var b strings.Builder
	writeValue(&b, v, 0)
	return b.String()
}

func writeValue(b *strings.Builder, v any, depth int) {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		b.WriteString(nullColor.Sprint("null"))
	case string:
		b.WriteString(stringColor.Sprint(quote(val)))
	case primitive.ObjectID:
		b.WriteString(stringColor.Sprint(quote(val.Hex())))
	case primitive.DateTime:
		b.WriteString(stringColor.Sprint(quote(val.Time().UTC().Format(time.RFC3339Nano))))
	case time.Time:
		b.WriteString(stringColor.Sprint(quote(val.UTC().Format(time.RFC3339Nano))))
	case bool:
		b.WriteString(boolColor.Sprint(strconv.FormatBool(val)))
	case int, int32, int64, float32, float64, primitive.Decimal128:
		b.WriteString(numberColor.Sprint(fmt.Sprint(val)))
	case bson.D:
		writeDocument(b, val, depth)
	case bson.M:
		writeDocument(b, sortedDocument(val), depth)
	case map[string]any:
		writeDocument(b, sortedDocument(val), depth)
	case bson.A:
		writeArray(b, val, depth)
	case []any:
		writeArray(b, val, depth)
	default:
		b.WriteString(stringColor.Sprint(quote(fmt.Sprint(val))))
	}
}

func writeDocument(b *strings.Builder, doc bson.D, depth int) {
	if len(doc) == 0 {
		b.WriteString("{}")
		return
	}

	pad := strings.Repeat(indentUnit, depth+1)
	b.WriteString("{\n")
	for i, elem := range doc {
		b.WriteString(pad)
		b.WriteString(keyColor.Sprint(quote(elem.Key)))
		b.WriteString(": ")
		writeValue(b, elem.Value, depth+1)
		if i < len(doc)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
}

func writeArray(b *strings.Builder, items []any, depth int) {
	if len(items) == 0 {
		b.WriteString("[]")
		return
	}

	pad := strings.Repeat(indentUnit, depth+1)
	b.WriteString("[\n")
	for i, item := range items {
		b.WriteString(pad)
		writeValue(b, item, depth+1)
		if i < len(items)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte(']')
}

func sortedDocument(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: m[k]})
	}
	return doc
}

// quote produces a JSON string literal without HTML escaping.
func quote(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
