package document

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tliron/commonlog"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei.document") }

// MediaType is the meta prefix a response must carry to be loaded.
const MediaType = "text/gemini"

const (
	linkMarker    = "=>"
	literalMarker = "```"
	geminiPrefix  = "gemini://"
)

var (
	linkRE   = regexp.MustCompile(`^=>\s*(\S+)(?:\s+(.*\S))?\s*$`)
	schemeRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)
)

// NotGemtextError is returned by Load when the response is not gemtext.
type NotGemtextError struct {
	Meta string
}

func (e *NotGemtextError) Error() string {
	return "not gemtext: " + e.Meta
}

// Load replaces the buffer contents with the parsed body. base is the URL
// the body was fetched from and is used to resolve relative links.
//
// When meta does not declare gemtext the buffer is left untouched and a
// *NotGemtextError is returned. Link lines whose target cannot be resolved
// are dropped and returned as skipped.
func (b *Buffer) Load(meta, body string, base *url.URL) (skipped []string, err error) {
	if !strings.HasPrefix(meta, MediaType) {
		return nil, &NotGemtextError{Meta: meta}
	}

	raw := strings.Split(body, "\n")
	if strings.HasSuffix(body, "\n") {
		raw = raw[:len(raw)-1]
	}

	var lines []Line
	linkID := 0
	for i := 0; i < len(raw); i++ {
		text := strings.TrimSuffix(raw[i], "\r")
		switch {
		case strings.HasPrefix(text, "#"):
			h, ok := parseHeading(text)
			if !ok {
				lines = append(lines, Plain{Body: text})
				continue
			}
			if len(lines) > 0 {
				lines = append(lines, Plain{})
			}
			lines = append(lines, h, Plain{})

		case strings.HasPrefix(text, linkMarker):
			link, err := parseLink(text, base)
			if err != nil {
				log().Debugf("skipping link %q: %s", text, err)
				skipped = append(skipped, text)
				continue
			}
			linkID++
			link.ID = linkID
			lines = append(lines, link)

		case strings.HasPrefix(text, literalMarker):
			for i++; i < len(raw); i++ {
				inner := strings.TrimSuffix(raw[i], "\r")
				if strings.HasPrefix(inner, literalMarker) {
					break
				}
				lines = append(lines, Plain{Body: inner})
			}

		default:
			lines = append(lines, Plain{Body: text})
		}
	}

	b.lines = lines
	b.cursor = 0
	b.url = base
	log().Infof("loaded %s: %d lines, %d links", base, len(lines), linkID)
	return skipped, nil
}

// parseHeading reports whether text is a level 1-3 heading.
func parseHeading(text string) (Heading, bool) {
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level > 3 {
		return Heading{}, false
	}
	return Heading{
		Level: level,
		Body:  strings.TrimSpace(text[level:]),
	}, true
}

func parseLink(text string, base *url.URL) (Link, error) {
	m := linkRE.FindStringSubmatch(text)
	if m == nil {
		return Link{}, fmt.Errorf("malformed link line")
	}
	target, err := resolveTarget(m[1], base)
	if err != nil {
		return Link{}, err
	}
	label := m[2]
	if label == "" {
		label = m[1]
	}
	return Link{Label: label, Target: target}, nil
}

// resolveTarget resolves a link target. Targets without a scheme:// prefix
// are relative references against base; anything else is used as-is.
func resolveTarget(raw string, base *url.URL) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing target: %w", err)
	}
	if !strings.HasPrefix(raw, geminiPrefix) && !schemeRE.MatchString(raw) && base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("cannot resolve relative target %q", raw)
	}
	return u, nil
}
