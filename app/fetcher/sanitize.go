package fetcher

import (
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|iframe|form)\b.*?</\s*(script|style|iframe|form)\s*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRe     = regexp.MustCompile(`(?s)<(/?)([a-zA-Z][a-zA-Z0-9]*)[^>]*>`)
	spaceRe   = regexp.MustCompile(`[ \t]{2,}`)
)

var allowedTags = map[string]bool{
	"p": true, "br": true, "strong": true, "em": true, "b": true, "i": true,
	"ul": true, "ol": true, "li": true, "a": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"img": true, "figure": true, "figcaption": true,
}

// sanitizeHTML strips scripts, styles, comments and any markup outside a
// small allowlist of content tags. Attributes are dropped from all tags
// except a and img, which keep only href and src respectively.
func sanitizeHTML(input string) string {
	if input == "" {
		return ""
	}

	out := scriptRe.ReplaceAllString(input, "")
	out = commentRe.ReplaceAllString(out, "")

	out = tagRe.ReplaceAllStringFunc(out, func(tag string) string {
		m := tagRe.FindStringSubmatch(tag)
		name := strings.ToLower(m[2])
		if !allowedTags[name] {
			return " "
		}
		if m[1] == "/" {
			return "</" + name + ">"
		}
		switch name {
		case "a":
			if href := attrValue(tag, "href"); href != "" && !strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return `<a href="` + href + `">`
			}
			return "<a>"
		case "img":
			if src := attrValue(tag, "src"); src != "" {
				return `<img src="` + src + `">`
			}
			return " "
		case "br":
			return "<br>"
		default:
			return "<" + name + ">"
		}
	})

	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// stripTags removes all markup, leaving plain text. Used for excerpts.
func stripTags(input string) string {
	if input == "" {
		return ""
	}
	out := scriptRe.ReplaceAllString(input, "")
	out = commentRe.ReplaceAllString(out, "")
	out = tagRe.ReplaceAllString(out, " ")
	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

var attrRe = regexp.MustCompile(`(?i)\b(href|src)\s*=\s*("([^"]*)"|'([^']*)'|([^\s>]+))`)

func attrValue(tag string, name string) string {
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		if !strings.EqualFold(m[1], name) {
			continue
		}
		if m[3] != "" {
			return m[3]
		}
		if m[4] != "" {
			return m[4]
		}
		return m[5]
	}
	return ""
}
