package actions

import (
	"context"
	"strings"

	"github.com/arthur-debert/onefile/pkg/types"
)

// stripTagsAction removes markup tags while keeping text content. With
// strip_tags set, only the named tags are removed; otherwise every tag
// goes. Tags listed in preserve_tags survive either way. Comparison is
// case-insensitive and closing tags follow their openers.
func stripTagsAction(_ context.Context, content string, _ types.FileEntry, settings *types.Settings) (string, error) {
	strip := toLowerSet(settings.StripTags)
	preserve := toLowerSet(settings.PreserveTags)
	stripAll := len(strip) == 0

	var b strings.Builder
	b.Grow(len(content))
	n := len(content)
	i := 0
	for i < n {
		c := content[i]
		if c != '<' {
			b.WriteByte(c)
			i++
			continue
		}
		if stripAll {
			// CDATA wraps text content, so unwrap instead of dropping
			if strings.HasPrefix(content[i:], "<![CDATA[") {
				end := strings.Index(content[i+9:], "]]>")
				if end < 0 {
					b.WriteString(content[i:])
					break
				}
				b.WriteString(content[i+9 : i+9+end])
				i += 9 + end + 3
				continue
			}
			if strings.HasPrefix(content[i:], "<!--") {
				end := strings.Index(content[i+4:], "-->")
				if end < 0 {
					break
				}
				i += 4 + end + 3
				continue
			}
			if strings.HasPrefix(content[i:], "<!") || strings.HasPrefix(content[i:], "<?") {
				end := strings.IndexByte(content[i:], '>')
				if end < 0 {
					break
				}
				i += end + 1
				continue
			}
		}
		name, end := scanTag(content, i)
		if end < 0 {
			// Bare '<' that never forms a tag stays as text
			b.WriteByte(c)
			i++
			continue
		}
		lower := strings.ToLower(name)
		drop := strip[lower] || stripAll
		if preserve[lower] {
			drop = false
		}
		if !drop {
			b.WriteString(content[i:end])
		}
		i = end
	}
	return b.String(), nil
}

// scanTag reads a tag starting at content[start] == '<'. It returns the
// tag name and the index one past the closing '>', or -1 when the text
// is not a tag. Quoted attribute values may contain '>'.
func scanTag(content string, start int) (string, int) {
	n := len(content)
	i := start + 1
	if i < n && content[i] == '/' {
		i++
	}
	nameStart := i
	for i < n && isTagNameByte(content[i], i > nameStart) {
		i++
	}
	if i == nameStart {
		return "", -1
	}
	name := content[nameStart:i]
	for i < n {
		switch content[i] {
		case '>':
			return name, i + 1
		case '"', '\'':
			q := content[i]
			i++
			for i < n && content[i] != q {
				i++
			}
			if i >= n {
				return "", -1
			}
			i++
		case '<':
			return "", -1
		default:
			i++
		}
	}
	return "", -1
}

func isTagNameByte(c byte, interior bool) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	if !interior {
		return false
	}
	return (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' || c == '.'
}

func toLowerSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}
