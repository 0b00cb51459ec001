package payload

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ericlevine/qrstyle"
)

// Link opens a web address. An address without a scheme gets https://.
type Link struct {
	URL string
}

func (Link) Kind() Kind { return KindLink }

func (l Link) encode() (string, error) {
	s := strings.TrimSpace(nfc(l.URL))
	if s == "" {
		return "", missing("url")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", invalid("url", "contains whitespace")
	}
	if !hasScheme(s) {
		s = "https://" + s
	}
	if _, err := url.Parse(s); err != nil {
		return "", invalid("url", "%v", err)
	}
	return s, nil
}

// hasScheme reports whether s starts with an RFC 3986 scheme. A host:port
// prefix such as "example.com:8080" is not a scheme.
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return strings.HasPrefix(s[i+1:], "//") || !strings.Contains(s[:i], ".")
}

// Email composes a message.
type Email struct {
	To      string
	Subject string
	Body    string
}

func (Email) Kind() Kind { return KindEmail }

func (e Email) encode() (string, error) {
	to := strings.TrimSpace(e.To)
	if to == "" {
		return "", missing("to")
	}
	if !strings.Contains(to, "@") || strings.IndexFunc(to, unicode.IsSpace) >= 0 {
		return "", invalid("to", "%q is not an address", to)
	}
	var query []string
	if e.Subject != "" {
		query = append(query, "subject="+pctEncode(nfc(e.Subject)))
	}
	if e.Body != "" {
		query = append(query, "body="+pctEncode(nfc(e.Body)))
	}
	return withQuery("mailto:"+to, query), nil
}

func withQuery(base string, query []string) string {
	if len(query) == 0 {
		return base
	}
	return base + "?" + strings.Join(query, "&")
}

// Phone dials a number.
type Phone struct {
	Number string
}

func (Phone) Kind() Kind { return KindPhone }

func (p Phone) encode() (string, error) {
	n, err := phoneNumber(p.Number)
	if err != nil {
		return "", err
	}
	return "tel:" + n, nil
}

// phoneNumber drops whitespace and checks for dialable characters.
func phoneNumber(s string) (string, error) {
	n := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if n == "" {
		return "", missing("number")
	}
	for i, r := range n {
		switch {
		case r >= '0' && r <= '9', strings.ContainsRune("-().*#", r):
		case r == '+' && i == 0:
		default:
			return "", invalid("number", "unexpected %q", r)
		}
	}
	return n, nil
}

// SMS composes a text message.
type SMS struct {
	Number string
	Body   string
}

func (SMS) Kind() Kind { return KindSMS }

func (s SMS) encode() (string, error) {
	n, err := phoneNumber(s.Number)
	if err != nil {
		return "", err
	}
	if s.Body == "" {
		return "sms:" + n, nil
	}
	return "sms:" + n + "?body=" + pctEncode(nfc(s.Body)), nil
}

// VideoCall starts a FaceTime call to a number or address.
type VideoCall struct {
	Handle string
	Audio  bool
}

func (VideoCall) Kind() Kind { return KindVideoCall }

func (v VideoCall) encode() (string, error) {
	h := strings.TrimSpace(v.Handle)
	if h == "" {
		return "", missing("handle")
	}
	if !strings.Contains(h, "@") {
		n, err := phoneNumber(h)
		if err != nil {
			return "", err
		}
		h = n
	}
	if v.Audio {
		return "facetime-audio:" + h, nil
	}
	return "facetime:" + h, nil
}

// Network is a social platform.
type Network int

const (
	NetworkX Network = iota
	NetworkMastodon
)

func (n Network) String() string {
	if n == NetworkMastodon {
		return "mastodon"
	}
	return "x"
}

// SocialPost opens a platform's share or follow intent. Follow is used when
// Username is set and Text is empty.
type SocialPost struct {
	Network  Network
	Text     string
	Username string
	// Instance is the Mastodon server host.
	Instance string
}

func (SocialPost) Kind() Kind { return KindSocial }

func (p SocialPost) encode() (string, error) {
	user := strings.TrimPrefix(strings.TrimSpace(p.Username), "@")
	if p.Text == "" && user == "" {
		return "", missing("text")
	}
	switch p.Network {
	case NetworkX:
		if p.Text == "" {
			return "https://twitter.com/intent/follow?screen_name=" + pctEncode(user), nil
		}
		return "https://twitter.com/intent/tweet?text=" + pctEncode(nfc(p.Text)), nil
	case NetworkMastodon:
		host := strings.Trim(strings.TrimSpace(p.Instance), "/")
		if host == "" {
			return "", missing("instance")
		}
		if strings.ContainsAny(host, "/:?# ") {
			return "", invalid("instance", "%q is not a host name", host)
		}
		if p.Text == "" {
			return "https://" + host + "/@" + pctEncode(user), nil
		}
		return "https://" + host + "/share?text=" + pctEncode(nfc(p.Text)), nil
	}
	return "", invalid("network", "%d", int(p.Network))
}

// Location opens a map at a coordinate. Uncertainty is in meters; zero
// means 1.
type Location struct {
	Lat         float64
	Lon         float64
	Uncertainty float64
}

func (Location) Kind() Kind { return KindLocation }

func (l Location) encode() (string, error) {
	u := l.Uncertainty
	if u == 0 {
		u = 1
	}
	switch {
	case math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90:
		return "", invalid("lat", "%v", l.Lat)
	case math.IsNaN(l.Lon) || l.Lon < -180 || l.Lon > 180:
		return "", invalid("lon", "%v", l.Lon)
	case math.IsNaN(u) || math.IsInf(u, 0) || u < 0:
		return "", invalid("uncertainty", "%v", u)
	}
	return "geo:" + formatFloat(l.Lat) + "," + formatFloat(l.Lon) + "," + formatFloat(u), nil
}

func formatFloat(f float64) string {
	if f == 0 {
		f = 0 // normalize -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseGeo parses geo:<lat>,<lon>[,<uncertainty>].
func ParseGeo(s string) (Location, error) {
	body, ok := strings.CutPrefix(s, "geo:")
	if !ok {
		return Location{}, fmt.Errorf("%w: not a geo URI", qrstyle.ErrFormat)
	}
	body, _, _ = strings.Cut(body, ";")
	parts := strings.Split(body, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Location{}, fmt.Errorf("%w: geo URI %q", qrstyle.ErrFormat, s)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Location{}, fmt.Errorf("%w: geo URI %q: %v", qrstyle.ErrFormat, s, err)
		}
		vals[i] = v
	}
	return Location{Lat: vals[0], Lon: vals[1], Uncertainty: vals[2]}, nil
}

// Automation runs a Shortcuts automation by name. Clipboard passes the
// clipboard as input and takes precedence over Input.
type Automation struct {
	Name      string
	Input     string
	Clipboard bool
}

func (Automation) Kind() Kind { return KindAutomation }

func (a Automation) encode() (string, error) {
	if a.Name == "" {
		return "", missing("name")
	}
	s := "shortcuts://run-shortcut?name=" + pctEncode(nfc(a.Name))
	switch {
	case a.Clipboard:
		s += "&input=clipboard"
	case a.Input != "":
		s += "&input=" + pctEncode(nfc(a.Input))
	}
	return s, nil
}

// ParseAutomation parses a run-shortcut URL.
func ParseAutomation(s string) (Automation, error) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "shortcuts" || u.Host != "run-shortcut" {
		return Automation{}, fmt.Errorf("%w: not a run-shortcut URL", qrstyle.ErrFormat)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil || q.Get("name") == "" {
		return Automation{}, fmt.Errorf("%w: run-shortcut URL without name", qrstyle.ErrFormat)
	}
	a := Automation{Name: q.Get("name")}
	if in := q.Get("input"); in == "clipboard" {
		a.Clipboard = true
	} else {
		a.Input = in
	}
	return a, nil
}

// DefaultCryptoScheme is used when CryptoRequest.Scheme is empty.
const DefaultCryptoScheme = "bitcoin"

// CryptoRequest requests a cryptocurrency payment. A zero Amount is omitted.
type CryptoRequest struct {
	Scheme  string
	Address string
	Amount  decimal.Decimal
}

func (CryptoRequest) Kind() Kind { return KindCrypto }

func (c CryptoRequest) encode() (string, error) {
	scheme := strings.ToLower(strings.TrimSpace(c.Scheme))
	if scheme == "" {
		scheme = DefaultCryptoScheme
	}
	if !hasScheme(scheme + ":") {
		return "", invalid("scheme", "%q", c.Scheme)
	}
	addr := strings.TrimSpace(c.Address)
	if addr == "" {
		return "", missing("address")
	}
	if strings.ContainsAny(addr, "?&:/ ") {
		return "", invalid("address", "%q", addr)
	}
	if c.Amount.IsNegative() {
		return "", invalid("amount", "%s is negative", c.Amount)
	}
	s := scheme + ":" + addr
	if !c.Amount.IsZero() {
		s += "?amount=" + c.Amount.String()
	}
	return s, nil
}

// ParseCrypto parses <scheme>:<address>[?amount=<decimal>].
func ParseCrypto(s string) (CryptoRequest, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" || !hasScheme(s) || strings.HasPrefix(rest, "//") {
		return CryptoRequest{}, fmt.Errorf("%w: not a payment URI", qrstyle.ErrFormat)
	}
	addr, query, _ := strings.Cut(rest, "?")
	if addr == "" {
		return CryptoRequest{}, fmt.Errorf("%w: payment URI without address", qrstyle.ErrFormat)
	}
	c := CryptoRequest{Scheme: scheme, Address: addr}
	if query != "" {
		q, err := url.ParseQuery(query)
		if err != nil {
			return CryptoRequest{}, fmt.Errorf("%w: %v", qrstyle.ErrFormat, err)
		}
		if a := q.Get("amount"); a != "" {
			if c.Amount, err = decimal.NewFromString(a); err != nil {
				return CryptoRequest{}, fmt.Errorf("%w: amount %q", qrstyle.ErrFormat, a)
			}
		}
	}
	return c, nil
}
