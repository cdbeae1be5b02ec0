// Package highlight renders code snippets to standalone HTML documents using chroma.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownStyle    = errors.New("unknown style")
)

type Options struct {
	Title    string
	Language string
	Style    string
	LineNos  bool
}

// Render highlights code and wraps it in a full HTML page whose body holds a
// <div class="highlight"> block.
func Render(code string, opts Options) (string, error) {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	styleName := strings.TrimSpace(opts.Style)
	if styleName == "" {
		styleName = DefaultStyle
	}
	if !IsLanguage(lang) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if !IsStyle(styleName) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}
	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(opts.LineNos),
		chromahtml.TabWidth(4),
	)
	var body bytes.Buffer
	if err := formatter.Format(&body, styles.Get(styleName), iterator); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	title := html.EscapeString(opts.Title)
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&doc, "  <title>%s</title>\n", title)
	doc.WriteString("  <meta http-equiv=\"content-type\" content=\"text/html; charset=utf-8\">\n")
	doc.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&doc, "<h2>%s</h2>\n", title)
	doc.WriteString("<div class=\"highlight\">")
	doc.Write(body.Bytes())
	doc.WriteString("</div>\n</body>\n</html>\n")
	return doc.String(), nil
}

var (
	languagesOnce sync.Once
	languageNames []string
	languageSet   map[string]struct{}
)

// catalogue lists lexer names and aliases in lower case. Unlike lexers.Get it does not
// match file names, so "main.go" is not a language.
func catalogue() ([]string, map[string]struct{}) {
	languagesOnce.Do(func() {
		languageSet = make(map[string]struct{})
		for _, name := range lexers.Names(true) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, dup := languageSet[name]; dup {
				continue
			}
			languageSet[name] = struct{}{}
			languageNames = append(languageNames, name)
		}
		sort.Strings(languageNames)
	})
	return languageNames, languageSet
}

// IsLanguage reports whether name is a lexer name or alias listed by Languages.
func IsLanguage(name string) bool {
	_, set := catalogue()
	_, ok := set[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func IsStyle(name string) bool {
	_, ok := styles.Registry[strings.TrimSpace(name)]
	return ok
}

func Languages() []string {
	names, _ := catalogue()
	return append([]string(nil), names...)
}

func Styles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}
