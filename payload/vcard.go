package payload

import (
	"fmt"
	"strings"

	"github.com/ericlevine/qrstyle"
)

// Contact adds an address-book entry as a vCard 3.0.
//
// When Source holds a raw vCard it is emitted instead of the fields, after
// properties that embed device or image metadata are stripped.
type Contact struct {
	Given   string
	Family  string
	Org     string
	Phone   string
	Address string
	Email   string
	URL     string
	Source  string
}

func (Contact) Kind() Kind { return KindContact }

func (c Contact) encode() (string, error) {
	if strings.TrimSpace(c.Source) != "" {
		return SanitizeVCard(nfc(c.Source))
	}
	if c.Given == "" && c.Family == "" {
		return "", missing("name")
	}
	given, family := escapeText(nfc(c.Given)), escapeText(nfc(c.Family))
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + family + ";" + given + ";;;",
		"FN:" + strings.TrimSpace(given+" "+family),
		"ORG:" + escapeText(nfc(c.Org)),
		"TEL;CELL:" + escapeText(nfc(c.Phone)),
		"ADR;TYPE=HOME:;;" + escapeText(nfc(c.Address)),
		"EMAIL:" + escapeText(nfc(c.Email)),
		"URL:" + escapeText(nfc(c.URL)),
		"END:VCARD",
	}
	return strings.Join(lines, "\n"), nil
}

var strippedProperties = map[string]bool{
	"PHOTO":  true,
	"LOGO":   true,
	"PRODID": true,
}

// SanitizeVCard removes PHOTO, LOGO and PRODID properties, including their
// folded continuation lines, and joins the rest with LF.
func SanitizeVCard(card string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(card, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if !skipping {
				out = append(out, line)
			}
			continue
		}
		skipping = strippedProperties[propertyName(line)]
		if !skipping {
			out = append(out, line)
		}
	}
	if len(out) < 2 || !strings.EqualFold(out[0], "BEGIN:VCARD") || !strings.EqualFold(out[len(out)-1], "END:VCARD") {
		return "", fmt.Errorf("%w: source is not a vCard", qrstyle.ErrInvalidField)
	}
	return strings.Join(out, "\n"), nil
}

// propertyName returns the upper-cased property name of a content line,
// without group prefix or parameters.
func propertyName(line string) string {
	name := line
	if i := strings.IndexAny(name, ";:"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}

// unfold joins folded content lines.
func unfold(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line != "" && (line[0] == ' ' || line[0] == '\t') && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitRaw splits at unescaped sep, leaving escapes in place.
func splitRaw(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// ParseVCard parses the properties of a vCard that map onto Contact fields.
func ParseVCard(s string) (Contact, error) {
	lines := unfold(s)
	if len(lines) < 2 || !strings.EqualFold(lines[0], "BEGIN:VCARD") || !strings.EqualFold(lines[len(lines)-1], "END:VCARD") {
		return Contact{}, fmt.Errorf("%w: not a vCard", qrstyle.ErrFormat)
	}
	var c Contact
	var named bool
	for _, line := range lines[1 : len(lines)-1] {
		head, value, ok := strings.Cut(line, ":")
		if !ok {
			return Contact{}, fmt.Errorf("%w: vCard line %q", qrstyle.ErrFormat, line)
		}
		switch propertyName(head) {
		case "N":
			parts := splitRaw(value, ';')
			c.Family = unescapeText(parts[0])
			if len(parts) > 1 {
				c.Given = unescapeText(parts[1])
			}
			named = true
		case "FN":
			named = named || value != ""
		case "ORG":
			c.Org = unescapeText(value)
		case "TEL":
			if c.Phone == "" {
				c.Phone = unescapeText(value)
			}
		case "ADR":
			parts := splitRaw(value, ';')
			var fields []string
			for _, part := range parts[min(2, len(parts)):] {
				if part != "" {
					fields = append(fields, unescapeText(part))
				}
			}
			c.Address = strings.Join(fields, ", ")
		case "EMAIL":
			if c.Email == "" {
				c.Email = unescapeText(value)
			}
		case "URL":
			c.URL = unescapeText(value)
		}
	}
	if !named {
		return Contact{}, fmt.Errorf("%w: vCard without name", qrstyle.ErrFormat)
	}
	return c, nil
}
