package coordinator

import (
	"errors"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestRouterResolve(t *testing.T) {
	router := NewToolRouter()
	router.Fold("math", []mcptypes.Tool{{Name: "add"}, {Name: "multiply"}})
	router.Fold("strings", []mcptypes.Tool{{Name: "uppercase"}})

	tests := []struct {
		tool     string
		expected string
	}{
		{"add", "math"},
		{"multiply", "math"},
		{"uppercase", "strings"},
	}

	for _, tt := range tests {
		worker, err := router.Resolve(tt.tool)
		if err != nil {
			t.Fatalf("resolve %q: unexpected error: %v", tt.tool, err)
		}
		if worker != tt.expected {
			t.Errorf("resolve %q: expected %q, got %q", tt.tool, tt.expected, worker)
		}
	}
}

func TestRouterResolveUnknown(t *testing.T) {
	router := NewToolRouter()
	router.Fold("math", []mcptypes.Tool{{Name: "add"}})

	_, err := router.Resolve("unknown_tool")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var notFound *ToolNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ToolNotFoundError, got %T: %v", err, err)
	}
	if notFound.Tool != "unknown_tool" {
		t.Errorf("expected tool 'unknown_tool', got %q", notFound.Tool)
	}
}

func TestRouterLastWriteWins(t *testing.T) {
	router := NewToolRouter()
	router.Fold("math", []mcptypes.Tool{{Name: "echo"}})
	router.Fold("strings", []mcptypes.Tool{{Name: "echo"}})

	worker, err := router.Resolve("echo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if worker != "strings" {
		t.Errorf("expected later fold to win, got %q", worker)
	}

	// Folding the earlier worker again flips ownership back.
	router.Fold("math", []mcptypes.Tool{{Name: "echo"}})
	worker, _ = router.Resolve("echo")
	if worker != "math" {
		t.Errorf("expected re-fold to take ownership, got %q", worker)
	}

	if router.Len() != 1 {
		t.Errorf("expected 1 routable name, got %d", router.Len())
	}
}

func TestRouterClear(t *testing.T) {
	router := NewToolRouter()
	router.Fold("math", []mcptypes.Tool{{Name: "add"}, {Name: "multiply"}})

	router.Clear()

	if router.Len() != 0 {
		t.Errorf("expected empty router, got %d entries", router.Len())
	}
	if _, err := router.Resolve("add"); err == nil {
		t.Error("expected resolve to fail after clear")
	}
}
