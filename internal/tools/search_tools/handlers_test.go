package search_tools

import (
	"strings"
	"testing"

	"google.golang.org/api/customsearch/v1"
)

func TestFormatSearchResults(t *testing.T) {
	got := formatSearchResults("go generics", []*customsearch.Result{
		{Title: "An Introduction To Generics", Link: "https://go.dev/blog/intro-generics", Snippet: "Type parameters..."},
		{Title: "Go spec", Link: "https://go.dev/ref/spec"},
	})

	for _, want := range []string{
		`Found 2 result(s) for "go generics"`,
		"1. An Introduction To Generics",
		"https://go.dev/blog/intro-generics",
		"Type parameters...",
		"2. Go spec",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatSearchResults missing %q:\n%s", want, got)
		}
	}
}
