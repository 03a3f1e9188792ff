package cache

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{
			name:   "no args",
			method: "FindOneBy",
			want:   "FindOneBy",
		},
		{
			name:   "single int",
			method: "FindOneBy",
			args:   []any{42},
			want:   joinWithSeparator("FindOneBy", "42"),
		},
		{
			name:   "multiple basic types",
			method: "FindOneBy",
			args:   []any{1, "hello", true, 3.14},
			want:   joinWithSeparator("FindOneBy", "1", `"hello"`, "true", "3.14"),
		},
		{
			name:   "nil values",
			method: "FindOneBy",
			args:   []any{nil, (*int)(nil), ([]int)(nil), (map[string]int)(nil)},
			want:   joinWithSeparator("FindOneBy", "nil", "nil", "slice:nil", "map:nil"),
		},
		{
			name:   "slice",
			method: "FindOneBy",
			args:   []any{[]int{1, 2}},
			want:   joinWithSeparator("FindOneBy", "slice[2]:{1,2}"),
		},
		{
			name:   "pointer is dereferenced",
			method: "FindOneBy",
			args:   []any{ptr("x")},
			want:   joinWithSeparator("FindOneBy", `"x"`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.method, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_CriteriaMapIsOrderIndependent(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	want := joinWithSeparator("FindOneBy", `map[2]:{"first"="Ada","last"="Lovelace"}`)
	for i := 0; i < 20; i++ {
		got := serializer.SerializeKey("FindOneBy", map[string]any{"last": "Lovelace", "first": "Ada"})
		if got != want {
			t.Fatalf("SerializeKey() = %v, want %v", got, want)
		}
	}
}

func TestDefaultKeySerializer_DistinctCriteriaGetDistinctKeys(t *testing.T) {
	serializer := NewNamespacedKeySerializer("people")

	tests := []struct {
		name  string
		left  map[string]any
		right map[string]any
	}{
		{
			name:  "separators inside values",
			left:  map[string]any{"first": "1", "last": "2,last=3"},
			right: map[string]any{"first": "1,last=2", "last": "3"},
		},
		{
			name:  "separators inside keys",
			left:  map[string]any{"a=b": "c"},
			right: map[string]any{"a": "b=c"},
		},
		{
			name:  "number and numeric string",
			left:  map[string]any{"id": 7},
			right: map[string]any{"id": "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := serializer.SerializeKey("FindOneBy", tt.left)
			right := serializer.SerializeKey("FindOneBy", tt.right)
			if left == right {
				t.Errorf("expected distinct keys, both rendered as %v", left)
			}
		})
	}
}

func TestDefaultKeySerializer_Stringers(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	id := uuid.MustParse("5f0c7a3e-3c55-4b8b-8f36-0d5b6f1b2a10")
	got := serializer.SerializeKey("FindOneBy", map[string]any{"id": id})
	want := joinWithSeparator("FindOneBy", `map[1]:{"id"="5f0c7a3e-3c55-4b8b-8f36-0d5b6f1b2a10"}`)
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got = serializer.SerializeKey("FindOneBy", ts)
	if got != joinWithSeparator("FindOneBy", strconv.Quote(ts.String())) {
		t.Errorf("SerializeKey() = %v", got)
	}
}

func TestDefaultKeySerializer_Structs(t *testing.T) {
	type criteria struct {
		Email  string
		Active bool
		secret string
	}

	got := NewDefaultKeySerializer().SerializeKey("FindOneBy", criteria{Email: "a@b.com", Active: true, secret: "x"})
	want := joinWithSeparator("FindOneBy", `struct:{Email:"a@b.com",Active:true}`)
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}
}

func TestDefaultKeySerializer_FunctionsAreStablePerValue(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	fn := func() {}

	first := serializer.SerializeKey("FindOneBy", fn)
	second := serializer.SerializeKey("FindOneBy", fn)
	if first != second {
		t.Errorf("expected same key for same function, got %v and %v", first, second)
	}
	if !strings.HasPrefix(first, joinWithSeparator("FindOneBy", "func:")) {
		t.Errorf("unexpected function key %v", first)
	}
}

func TestNamespacedKeySerializer(t *testing.T) {
	got := NewNamespacedKeySerializer("user").SerializeKey("FindOneBy", "a")
	if got != joinWithSeparator("user", "FindOneBy", `"a"`) {
		t.Errorf("SerializeKey() = %v", got)
	}
}

func TestHashedKeySerializer(t *testing.T) {
	inner := NewNamespacedKeySerializer("user")
	serializer := NewHashedKeySerializer(inner, 40)

	short := serializer.SerializeKey("FindOneBy", "a")
	if short != joinWithSeparator("user", "FindOneBy", `"a"`) {
		t.Errorf("short keys must be untouched, got %v", short)
	}

	long := strings.Repeat("x", 100)
	first := serializer.SerializeKey("FindOneBy", long)
	second := serializer.SerializeKey("FindOneBy", long)
	other := serializer.SerializeKey("FindOneBy", long+"y")

	if first != second {
		t.Errorf("hashing must be deterministic: %v vs %v", first, second)
	}
	if first == other {
		t.Errorf("different args must hash differently")
	}
	if !strings.HasPrefix(first, joinWithSeparator("user", "FindOneBy", "xxh:")) {
		t.Errorf("namespace and method must stay readable, got %v", first)
	}
	if len(first) > 40 {
		t.Errorf("expected key under limit, got %d chars", len(first))
	}
}

func TestHashedKeySerializer_WithoutNamespace(t *testing.T) {
	serializer := NewHashedKeySerializer(nil, 10)
	got := serializer.SerializeKey("FindOneBy", strings.Repeat("z", 50))
	if !strings.HasPrefix(got, joinWithSeparator("FindOneBy", "xxh:")) {
		t.Errorf("unexpected key %v", got)
	}
}

func ptr[T any](v T) *T {
	return &v
}
