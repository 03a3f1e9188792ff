package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// defaultKeySerializer implements KeySerializer using reflection. Maps are
// rendered with sorted keys so that criteria maps produce the same key
// regardless of iteration order. Strings are quoted so that separators inside
// values cannot make two different arguments render alike.
type defaultKeySerializer struct {
	namespace string
}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// NewNamespacedKeySerializer prefixes every key with namespace.
func NewNamespacedKeySerializer(namespace string) KeySerializer {
	return &defaultKeySerializer{namespace: namespace}
}

// SerializeKey builds a cache key from method name and args.
func (s *defaultKeySerializer) SerializeKey(method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, serializeValue(reflect.ValueOf(arg)))
	}
	return strings.Join(parts, KeySeparator)
}

func serializeValue(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return "func:nil"
		}
		return fmt.Sprintf("func:%#x", rv.Pointer())
	case reflect.Chan:
		return fmt.Sprintf("chan:%#x", rv.Pointer())
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return "slice" + serializeElems(rv)
	case reflect.Array:
		if s, ok := asStringer(rv); ok {
			return strconv.Quote(s)
		}
		return "array" + serializeElems(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return serializeMap(rv)
	case reflect.Struct:
		if s, ok := asStringer(rv); ok {
			return strconv.Quote(s)
		}
		return serializeStruct(rv)
	case reflect.String:
		return strconv.Quote(rv.String())
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", rv.Interface())
	}

	return jsonFallback(rv)
}

func serializeElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = serializeValue(rv.Index(i))
	}
	return "[" + strconv.Itoa(len(parts)) + "]:{" + strings.Join(parts, ",") + "}"
}

func serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, serializeValue(iter.Key())+"="+serializeValue(iter.Value()))
	}
	sort.Strings(pairs)
	return "map[" + strconv.Itoa(len(pairs)) + "]:{" + strings.Join(pairs, ",") + "}"
}

func serializeStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+serializeValue(rv.Field(i)))
	}
	return "struct:{" + strings.Join(parts, ",") + "}"
}

// asStringer renders value types such as uuid.UUID or time.Time through
// their String method instead of their raw fields.
func asStringer(rv reflect.Value) (string, bool) {
	if !rv.CanInterface() {
		return "", false
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}

func jsonFallback(rv reflect.Value) string {
	if !rv.CanInterface() {
		return "fallback:" + rv.Type().String()
	}
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return "fallback:" + rv.Type().String()
	}
	return "json:" + string(data)
}

// DefaultMaxKeyLength is the key length above which HashedKeySerializer
// replaces the argument segments with a digest.
const DefaultMaxKeyLength = 200

type hashedKeySerializer struct {
	inner     KeySerializer
	maxLength int
}

// NewHashedKeySerializer wraps inner and keeps keys under maxLength by
// replacing everything after the method segment with an xxhash digest.
// The namespace and method stay readable so prefix invalidation keeps working.
func NewHashedKeySerializer(inner KeySerializer, maxLength int) KeySerializer {
	if inner == nil {
		inner = NewDefaultKeySerializer()
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxKeyLength
	}
	return &hashedKeySerializer{inner: inner, maxLength: maxLength}
}

func (s *hashedKeySerializer) SerializeKey(method string, args ...any) string {
	key := s.inner.SerializeKey(method, args...)
	if len(key) <= s.maxLength {
		return key
	}

	marker := KeySeparator + method + KeySeparator
	idx := strings.Index(key, marker)
	if idx < 0 {
		if strings.HasPrefix(key, method+KeySeparator) {
			idx, marker = 0, method+KeySeparator
		} else {
			return "xxh:" + strconv.FormatUint(xxhash.Sum64String(key), 16)
		}
	}

	head := key[:idx+len(marker)]
	tail := key[idx+len(marker):]
	return head + "xxh:" + strconv.FormatUint(xxhash.Sum64String(tail), 16)
}
