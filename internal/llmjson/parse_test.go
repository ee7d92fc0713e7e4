package llmjson

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, v Value)
	}{
		{
			name: "PlainObject",
			raw:  `{"topics": [{"title": "A"}], "industry_summary": "S"}`,
			check: func(t *testing.T, v Value) {
				if got := v.Field("industry_summary").Str(""); got != "S" {
					t.Errorf("industry_summary = %q, want S", got)
				}
				if !v.Field("topics").IsArray() {
					t.Error("topics should be an array")
				}
			},
		},
		{
			name: "FencedObject",
			raw:  "```json\n{\"variations\": [{\"id\": 1}]}\n```",
			check: func(t *testing.T, v Value) {
				items := v.Field("variations").Items()
				if len(items) != 1 {
					t.Fatalf("variations = %d items, want 1", len(items))
				}
				if got := items[0].Field("id").Int(0); got != 1 {
					t.Errorf("id = %d, want 1", got)
				}
			},
		},
		{
			name: "FencedWithoutLanguage",
			raw:  "```\n{\"message\": \"ok\"}\n```",
			check: func(t *testing.T, v Value) {
				if got := v.Field("message").Str(""); got != "ok" {
					t.Errorf("message = %q, want ok", got)
				}
			},
		},
		{
			name: "ObjectEmbeddedInProse",
			raw:  `Here is the result you asked for: {"post_url": "https://x.com/1", "post_id": "99"} hope it helps!`,
			check: func(t *testing.T, v Value) {
				if got := v.Field("post_url").Str(""); got != "https://x.com/1" {
					t.Errorf("post_url = %q", got)
				}
			},
		},
		{
			name: "BareArray",
			raw:  `[{"title": "first"}, {"title": "second"}]`,
			check: func(t *testing.T, v Value) {
				if !v.IsArray() {
					t.Fatal("expected array value")
				}
				if len(v.Items()) != 2 {
					t.Errorf("items = %d, want 2", len(v.Items()))
				}
			},
		},
		{
			name: "ArrayEmbeddedInProse",
			raw:  `The topics are: [{"title": "first"}] as requested.`,
			check: func(t *testing.T, v Value) {
				if !v.IsArray() {
					t.Fatal("expected array value")
				}
			},
		},
		{
			name: "BracesInsideStrings",
			raw:  `prefix {"text": "a } inside \" quote", "n": 2} suffix`,
			check: func(t *testing.T, v Value) {
				if got := v.Field("n").Int(0); got != 2 {
					t.Errorf("n = %d, want 2", got)
				}
			},
		},
		{
			name: "NestedObjects",
			raw:  "Sure! ```json\n{\"outer\": {\"inner\": [1, 2]}}\n```",
			check: func(t *testing.T, v Value) {
				if !v.Field("outer").IsObject() {
					t.Error("outer should be an object")
				}
			},
		},
		{name: "PureProse", raw: "I could not produce any structured output, sorry.", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
		{name: "BareString", raw: `"just a string"`, wantErr: true},
		{name: "BareNumber", raw: "42", wantErr: true},
		{name: "UnterminatedObject", raw: `{"broken": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.raw)
				}
				if !errors.Is(err, ErrNoJSON) {
					t.Errorf("error = %v, want ErrNoJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.raw, err)
			}
			tt.check(t, v)
		})
	}
}

func TestValueDefaults(t *testing.T) {
	v, err := Parse(`{"count": 3, "score": 91.5, "name": "x", "tags": ["a", "b", 7], "flag": true}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := v.Field("missing").Str("fallback"); got != "fallback" {
		t.Errorf("missing Str = %q, want fallback", got)
	}
	if got := v.Field("name").Int(9); got != 9 {
		t.Errorf("wrong-typed Int = %d, want default 9", got)
	}
	if got := v.Field("count").Int(0); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	if got := v.Field("score").Float(0); got != 91.5 {
		t.Errorf("score = %v, want 91.5", got)
	}
	if got := v.Field("flag").Bool(false); !got {
		t.Error("flag should be true")
	}

	// Non-string elements are skipped, not coerced.
	tags := v.Field("tags").StrSlice()
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", tags)
	}

	if got := v.FirstOf("post_url", "name").Str(""); got != "x" {
		t.Errorf("FirstOf = %q, want x", got)
	}
	if !v.Field("nope").IsNil() {
		t.Error("missing field should be nil")
	}
	if v.Field("nope").Field("deeper").Str("d") != "d" {
		t.Error("chained access on nil should return default")
	}
}

func TestOfNil(t *testing.T) {
	v := Of(nil)
	if !v.IsNil() {
		t.Error("Of(nil) should be nil")
	}
	if got := v.Field("anything").Str("def"); got != "def" {
		t.Errorf("Str on nil = %q, want def", got)
	}
	if items := v.Items(); items != nil {
		t.Errorf("Items on nil = %v, want nil", items)
	}
}
