package mobileservice

import (
	"reflect"
	"testing"
)

type keyedItem struct {
	ID   int    `json:"key"`
	Name string `json:"name"`
}

type plainItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type anonymousItem struct {
	Name string `json:"name"`
}

func TestParseResultsRenamesIdentifier(t *testing.T) {
	results, err := ParseResults[keyedItem]([]byte(`{"id": 5, "name": "a"}`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
	if results[0].ID != 5 || results[0].Name != "a" {
		t.Fatalf("entity = %+v, want ID=5 Name=a", results[0])
	}
}

func TestParseResultsIdentifierAlreadyNamedID(t *testing.T) {
	results, err := ParseResults[plainItem]([]byte(`{"id": "id", "name": "a"}`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if results[0].ID != "id" || results[0].Name != "a" {
		t.Fatalf("entity = %+v", results[0])
	}
}

func TestParseResultsArrayPreservesOrder(t *testing.T) {
	type uidItem struct {
		ID   int    `json:"uid"`
		Text string `json:"text"`
	}

	results, err := ParseResults[uidItem]([]byte(`[{"id": 1, "text": "x"}, {"id": 2, "text": "y"}]`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", results[0].ID, results[1].ID)
	}
	if results[0].Text != "x" || results[1].Text != "y" {
		t.Fatalf("texts = %q, %q", results[0].Text, results[1].Text)
	}
}

func TestParseResultsNoIdentifierField(t *testing.T) {
	results, err := ParseResults[anonymousItem]([]byte(`{"id": 9, "name": "a"}`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if results[0].Name != "a" {
		t.Fatalf("entity = %+v", results[0])
	}
}

func TestParseResultsMissingID(t *testing.T) {
	// A rewrite applies for keyedItem, but this element has no "id"
	// property. The element is deserialized as-is rather than failing
	// the whole parse.
	results, err := ParseResults[keyedItem]([]byte(`[{"id": 1, "name": "a"}, {"name": "b"}]`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].ID != 1 {
		t.Fatalf("first entity = %+v", results[0])
	}
	if results[1].ID != 0 || results[1].Name != "b" {
		t.Fatalf("second entity = %+v", results[1])
	}
}

func TestParseResultsNonObjectPayload(t *testing.T) {
	results, err := ParseResults[string]([]byte(`"hello"`))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(results) != 1 || results[0] != "hello" {
		t.Fatalf("results = %v", results)
	}
}

func TestParseResultsMalformedArrayElement(t *testing.T) {
	if _, err := ParseResults[plainItem]([]byte(`[{"id": "1"}, 42]`)); err == nil {
		t.Fatal("expected an error for a non-object element")
	}
}

func TestResolveIDFieldPriority(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"tag equals id", resolveIDFieldFor[plainItem](), "id"},
		{"field named id with alias", resolveIDFieldFor[keyedItem](), "key"},
		{"no identifier", resolveIDFieldFor[anonymousItem](), ""},
		{"alias case variant", resolveIDFieldFor[caseVariantItem](), "Id"},
		{"untagged field named ID", resolveIDFieldFor[untaggedItem](), "ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("resolved %q, want %q", tt.got, tt.want)
			}
		})
	}
}

type caseVariantItem struct {
	Value string `json:"Id"`
}

type untaggedItem struct {
	ID   string
	Name string
}

func resolveIDFieldFor[T any]() string {
	return resolveIDField(reflect.TypeOf((*T)(nil)).Elem())
}
