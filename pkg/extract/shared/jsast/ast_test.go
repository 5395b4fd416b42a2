package jsast

import (
	"context"
	"reflect"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

func TestUnquoteString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"double"`, "double"},
		{`'single'`, "single"},
		{"`backtick`", "backtick"},
		{`"with \"escape\""`, `with "escape"`},
		{`'it\'s'`, "it's"},
		{`""`, ""},
		{`x`, "x"},
		{``, ""},
	}
	for _, tt := range tests {
		if got := UnquoteString(tt.input); got != tt.expected {
			t.Errorf("UnquoteString(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func parseJS(t *testing.T, source []byte) *sitter.Tree {
	t.Helper()
	tree, err := tspool.Parse(context.Background(), domain.LanguageJavaScript, source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func findNodeByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if result := findNodeByType(node.Child(i), nodeType); result != nil {
			return result
		}
	}
	return nil
}

func TestStringValue(t *testing.T) {
	source := []byte(`const x = "hello";`)
	tree := parseJS(t, source)

	strNode := findNodeByType(tree.RootNode(), NodeString)
	if strNode == nil {
		t.Fatal("string node not found")
	}

	if got := StringValue(strNode, source); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
	if got := StringValue(nil, source); got != "" {
		t.Errorf("expected empty for nil node, got %q", got)
	}

	identNode := findNodeByType(tree.RootNode(), NodeIdentifier)
	if got := StringValue(identNode, source); got != "" {
		t.Errorf("expected empty for non-string node, got %q", got)
	}
}

func TestArrayStrings(t *testing.T) {
	t.Run("string elements", func(t *testing.T) {
		source := []byte(`const flags = ["one", 'two', "three"];`)
		tree := parseJS(t, source)

		arr := findNodeByType(tree.RootNode(), NodeArray)
		if arr == nil {
			t.Fatal("array node not found")
		}

		want := []string{"one", "two", "three"}
		if got := ArrayStrings(arr, source); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("non-string elements skipped", func(t *testing.T) {
		source := []byte(`const mixed = ["kept", 42, someVar, ["nested"]];`)
		tree := parseJS(t, source)

		arr := findNodeByType(tree.RootNode(), NodeArray)
		if got := ArrayStrings(arr, source); !reflect.DeepEqual(got, []string{"kept"}) {
			t.Errorf("expected [kept], got %v", got)
		}
	})
}
