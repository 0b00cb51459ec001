package payload

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ericlevine/qrstyle"
)

// cryptoSchemes are the payment URI schemes recognized by KindOf.
var cryptoSchemes = map[string]bool{
	"bitcoin":     true,
	"bitcoincash": true,
	"ethereum":    true,
	"litecoin":    true,
	"dogecoin":    true,
	"monero":      true,
	"solana":      true,
	"zcash":       true,
}

// KindOf classifies a payload by its micro-format. Anything unrecognized is
// KindText.
func KindOf(p string) Kind {
	lower := strings.ToLower(p)
	switch {
	case strings.HasPrefix(p, "WIFI:"):
		return KindWifi
	case strings.HasPrefix(lower, "begin:vcard"):
		return KindContact
	case strings.HasPrefix(lower, "begin:vevent"):
		return KindEvent
	case strings.HasPrefix(lower, "mailto:"):
		return KindEmail
	case strings.HasPrefix(lower, "tel:"):
		return KindPhone
	case strings.HasPrefix(lower, "sms:"):
		return KindSMS
	case strings.HasPrefix(lower, "facetime:"), strings.HasPrefix(lower, "facetime-audio:"):
		return KindVideoCall
	case strings.HasPrefix(lower, "geo:"):
		return KindLocation
	case strings.HasPrefix(lower, "shortcuts://run-shortcut"):
		return KindAutomation
	case strings.HasPrefix(lower, "https://twitter.com/intent/"), strings.HasPrefix(lower, "https://x.com/intent/"):
		return KindSocial
	case strings.HasPrefix(lower, "https://") && strings.Contains(lower, "/share?text="):
		return KindSocial
	}
	if scheme, _, ok := strings.Cut(lower, ":"); ok && cryptoSchemes[scheme] {
		return KindCrypto
	}
	if hasScheme(p) && strings.IndexByte(p, ' ') < 0 {
		return KindLink
	}
	return KindText
}

// Parse recovers the intent a payload was encoded from. Fields that the
// micro-format does not carry are left zero. A payload that only looks like
// a micro-format, such as "geo:home", is returned as PlainText.
func Parse(p string) (Intent, error) {
	intent, err := ParseStrict(p)
	if err != nil {
		return PlainText{Text: p}, nil
	}
	return intent, nil
}

// ParseStrict is Parse without the PlainText fallback. A payload whose
// prefix names a micro-format it does not follow fails with ErrFormat.
func ParseStrict(p string) (Intent, error) {
	switch KindOf(p) {
	case KindWifi:
		return ParseWifi(p)
	case KindContact:
		return ParseVCard(p)
	case KindEvent:
		return ParseVEvent(p)
	case KindLocation:
		return ParseGeo(p)
	case KindCrypto:
		return ParseCrypto(p)
	case KindAutomation:
		return ParseAutomation(p)
	case KindEmail:
		return parseEmail(p)
	case KindPhone:
		return Phone{Number: p[len("tel:"):]}, nil
	case KindSMS:
		return parseSMS(p)
	case KindVideoCall:
		scheme, handle, _ := strings.Cut(p, ":")
		return VideoCall{Handle: handle, Audio: strings.EqualFold(scheme, "facetime-audio")}, nil
	case KindSocial:
		return parseSocial(p)
	case KindLink:
		return Link{URL: p}, nil
	}
	return PlainText{Text: p}, nil
}

func parseEmail(p string) (Email, error) {
	to, query, _ := strings.Cut(p[len("mailto:"):], "?")
	q, err := url.ParseQuery(query)
	if err != nil {
		return Email{}, fmt.Errorf("%w: %v", qrstyle.ErrFormat, err)
	}
	return Email{To: to, Subject: q.Get("subject"), Body: q.Get("body")}, nil
}

func parseSMS(p string) (SMS, error) {
	number, query, _ := strings.Cut(p[len("sms:"):], "?")
	q, err := url.ParseQuery(query)
	if err != nil {
		return SMS{}, fmt.Errorf("%w: %v", qrstyle.ErrFormat, err)
	}
	return SMS{Number: number, Body: q.Get("body")}, nil
}

func parseSocial(p string) (SocialPost, error) {
	u, err := url.Parse(p)
	if err != nil {
		return SocialPost{}, fmt.Errorf("%w: %v", qrstyle.ErrFormat, err)
	}
	q := u.Query()
	switch u.Path {
	case "/intent/tweet":
		return SocialPost{Network: NetworkX, Text: q.Get("text")}, nil
	case "/intent/follow":
		return SocialPost{Network: NetworkX, Username: q.Get("screen_name")}, nil
	case "/share":
		return SocialPost{Network: NetworkMastodon, Instance: u.Host, Text: q.Get("text")}, nil
	}
	return SocialPost{}, fmt.Errorf("%w: social URL %q", qrstyle.ErrFormat, p)
}
