package pyast

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

func parsePy(t *testing.T, source []byte) *sitter.Tree {
	t.Helper()
	tree, err := tspool.Parse(context.Background(), domain.LanguagePython, source)
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
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"double quotes", `x = "hello"`, "hello"},
		{"single quotes", `x = 'hello'`, "hello"},
		{"triple quotes", `x = """hello"""`, "hello"},
		{"raw prefix", `x = r"raw\path"`, `raw\path`},
		{"unicode prefix", `x = u"text"`, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := []byte(tt.source)
			tree := parsePy(t, source)

			strNode := findNodeByType(tree.RootNode(), NodeString)
			if strNode == nil {
				t.Fatal("string node not found")
			}
			if got := StringValue(strNode, source); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	t.Run("nil node", func(t *testing.T) {
		if got := StringValue(nil, nil); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

func TestCallName(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"attribute call", `client.get_treatment("flag")`, "get_treatment"},
		{"bare call", `get_treatment("flag")`, "get_treatment"},
		{"chained attribute", `factory.client().get_treatment("flag")`, "get_treatment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := []byte(tt.source)
			tree := parsePy(t, source)

			call := findNodeByType(tree.RootNode(), NodeCall)
			if call == nil {
				t.Fatal("call node not found")
			}
			if got := CallName(call, source); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestArguments(t *testing.T) {
	source := []byte(`client.get_treatment("flag", attributes)`)
	tree := parsePy(t, source)

	call := findNodeByType(tree.RootNode(), NodeCall)
	args := Arguments(call)
	if args == nil {
		t.Fatal("expected argument list")
	}
	if args.NamedChildCount() != 2 {
		t.Errorf("expected 2 arguments, got %d", args.NamedChildCount())
	}
}
