package variables

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fastygo/contracts/internal/placeholder"
	"github.com/fastygo/contracts/pkg/format"
)

// field is one curated (key suffix, accessor) pair.
type field[T any] struct {
	suffix string
	get    func(T) string
}

// curated writes the registry entries for v under prefix. Curated values are
// written first and always win over the reflection pass.
func curated[T any](vars placeholder.Variables, prefix string, v T, fields []field[T]) {
	for _, f := range fields {
		vars[prefix+"_"+f.suffix] = f.get(v)
	}
}

// reflected exposes every primitive field of v as PREFIX_UPPER_SNAKE_NAME
// unless the key is already present. Fields tagged `placeholder:"-"`,
// unexported fields and composite values are skipped.
func reflected(vars placeholder.Variables, prefix string, v interface{}) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Tag.Get("placeholder") == "-" {
			continue
		}
		value, ok := primitiveString(rv.Field(i))
		if !ok {
			continue
		}
		key := prefix + "_" + upperSnake(sf.Name)
		if _, exists := vars[key]; exists {
			continue
		}
		vars[key] = value
	}
}

var timeType = reflect.TypeOf(time.Time{})

func primitiveString(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			elem := v.Type().Elem()
			if elem == timeType || isScalar(elem.Kind()) {
				return "", true
			}
			return "", false
		}
		v = v.Elem()
	}
	if v.Type() == timeType {
		return format.ShortDate(v.Interface().(time.Time)), true
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		if v.Bool() {
			return "sim", true
		}
		return "não", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	}
	return "", false
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// upperSnake converts a Go identifier to UPPER_SNAKE_CASE, keeping acronyms
// together: TaxID -> TAX_ID, IDNumber -> ID_NUMBER.
func upperSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
