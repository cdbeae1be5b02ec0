package highlight

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderWrapsHighlightDiv(t *testing.T) {
	out, err := Render("print('Hello, world!')", Options{Title: "Test <Snippet>", Language: "python", Style: "friendly"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `<div class="highlight">`) {
		t.Fatalf("missing highlight div: %s", out)
	}
	if !strings.Contains(out, "<title>Test &lt;Snippet&gt;</title>") {
		t.Fatalf("title not escaped: %s", out)
	}
	if !strings.Contains(out, "Hello, world!") {
		t.Fatalf("code missing from output")
	}
}

func TestRenderDefaults(t *testing.T) {
	if _, err := Render("x = 1", Options{}); err != nil {
		t.Fatalf("defaults should render: %v", err)
	}
}

func TestRenderRejectsUnknown(t *testing.T) {
	if _, err := Render("x", Options{Language: "no-such-language-xyz"}); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
	if _, err := Render("x", Options{Style: "no-such-style-xyz"}); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestCatalogues(t *testing.T) {
	if !IsLanguage("python") || !IsLanguage("go") {
		t.Fatalf("expected python and go to be known languages")
	}
	if !IsStyle(DefaultStyle) {
		t.Fatalf("default style %q must be registered", DefaultStyle)
	}
	if len(Languages()) == 0 || len(Styles()) == 0 {
		t.Fatalf("catalogues should not be empty")
	}
}

func TestIsLanguageMatchesCatalogueOnly(t *testing.T) {
	for _, name := range []string{"main.go", "script.py", "Makefile.am", "*.rs"} {
		if IsLanguage(name) {
			t.Fatalf("%q is a file name, not a language", name)
		}
	}
	for _, name := range []string{"Python", "golang", " go "} {
		if !IsLanguage(name) {
			t.Fatalf("%q should be a known language", name)
		}
	}
	langs := Languages()
	for i, name := range langs {
		if name != strings.ToLower(name) {
			t.Fatalf("catalogue entry %q is not lower case", name)
		}
		if i > 0 && langs[i-1] >= name {
			t.Fatalf("catalogue not sorted and unique at %q", name)
		}
		if !IsLanguage(name) {
			t.Fatalf("catalogue entry %q rejected by IsLanguage", name)
		}
	}
	if _, err := Render("x", Options{Language: "main.go"}); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("Render should reject file names, got %v", err)
	}
}
