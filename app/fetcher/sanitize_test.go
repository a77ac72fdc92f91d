package fetcher

import (
	"strings"
	"testing"
)

func TestSanitizeHTMLRemovesScriptsAndStyles(t *testing.T) {
	input := `<p>Before</p><script>alert("xss")</script><style>body { color: red; }</style><p>After</p>`

	result := sanitizeHTML(input)

	if strings.Contains(result, "alert") {
		t.Errorf("Expected script content removed, got: %s", result)
	}
	if strings.Contains(result, "color: red") {
		t.Errorf("Expected style content removed, got: %s", result)
	}
	if !strings.Contains(result, "<p>Before</p>") || !strings.Contains(result, "<p>After</p>") {
		t.Errorf("Expected paragraphs preserved, got: %s", result)
	}
}

func TestSanitizeHTMLStripsDisallowedTags(t *testing.T) {
	input := `<div class="wrapper"><p>Text with <strong>bold</strong> and <span>span</span></p></div>`

	result := sanitizeHTML(input)

	if strings.Contains(result, "<div") || strings.Contains(result, "<span") {
		t.Errorf("Expected div and span stripped, got: %s", result)
	}
	if !strings.Contains(result, "<strong>bold</strong>") {
		t.Errorf("Expected strong preserved, got: %s", result)
	}
	if !strings.Contains(result, "Text with") || !strings.Contains(result, "span") {
		t.Errorf("Expected text content preserved, got: %s", result)
	}
}

func TestSanitizeHTMLDropsAttributes(t *testing.T) {
	input := `<p style="color:red" onclick="evil()">Hello</p>`

	result := sanitizeHTML(input)

	if strings.Contains(result, "onclick") || strings.Contains(result, "style") {
		t.Errorf("Expected attributes dropped, got: %s", result)
	}
	if !strings.Contains(result, "<p>Hello</p>") {
		t.Errorf("Expected clean paragraph, got: %s", result)
	}
}

func TestSanitizeHTMLKeepsSafeLinkHref(t *testing.T) {
	input := `<a href="https://example.com" target="_blank" rel="nofollow">Example</a>`

	result := sanitizeHTML(input)

	if result != `<a href="https://example.com">Example</a>` {
		t.Errorf("Expected link with only href, got: %s", result)
	}
}

func TestSanitizeHTMLDropsJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert(1)">Click</a>`

	result := sanitizeHTML(input)

	if strings.Contains(result, "javascript:") {
		t.Errorf("Expected javascript href dropped, got: %s", result)
	}
	if !strings.Contains(result, "Click") {
		t.Errorf("Expected link text preserved, got: %s", result)
	}
}

func TestSanitizeHTMLKeepsImageSrc(t *testing.T) {
	input := `<img src="https://example.com/pic.jpg" data-lazy="1" alt="pic">`

	result := sanitizeHTML(input)

	if result != `<img src="https://example.com/pic.jpg">` {
		t.Errorf("Expected image with only src, got: %s", result)
	}
}

func TestSanitizeHTMLRemovesComments(t *testing.T) {
	input := `<p>Visible</p><!-- hidden note -->`

	result := sanitizeHTML(input)

	if strings.Contains(result, "hidden note") {
		t.Errorf("Expected comment removed, got: %s", result)
	}
}

func TestSanitizeHTMLEmptyInput(t *testing.T) {
	if result := sanitizeHTML(""); result != "" {
		t.Errorf("Expected empty output for empty input, got: %s", result)
	}
}

func TestStripTags(t *testing.T) {
	input := `<p>Hello <strong>world</strong></p><script>bad()</script>`

	result := stripTags(input)

	if strings.Contains(result, "<") {
		t.Errorf("Expected all markup removed, got: %s", result)
	}
	if !strings.Contains(result, "Hello") || !strings.Contains(result, "world") {
		t.Errorf("Expected text preserved, got: %s", result)
	}
	if strings.Contains(result, "bad()") {
		t.Errorf("Expected script content removed, got: %s", result)
	}
}
