package payload

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/ericlevine/qrstyle"
)

var encodeTests = []struct {
	name   string
	intent Intent
	want   string
}{
	{"wifi", WifiNetwork{SSID: "Home", Passphrase: "secret1", Security: SecurityWPA}, "WIFI:T:WPA;S:Home;P:secret1;;"},
	{"wifi escaped", WifiNetwork{SSID: `My;Net`, Passphrase: `a:b\c,"d"`, Security: SecurityWEP}, `WIFI:T:WEP;S:My\;Net;P:a\:b\\c\,\"d\";;`},
	{"wifi open hidden", WifiNetwork{SSID: "Cafe", Passphrase: "ignored", Security: SecurityOpen, Hidden: true}, "WIFI:T:;S:Cafe;P:;H:true;;"},
	{"geo", Location{Lat: 38.6247, Lon: -90.1848}, "geo:38.6247,-90.1848,1"},
	{"geo uncertainty", Location{Lat: -33.5, Lon: 151, Uncertainty: 25}, "geo:-33.5,151,25"},
	{"crypto", CryptoRequest{Address: "bc1qxyz", Amount: decimal.RequireFromString("0.0015")}, "bitcoin:bc1qxyz?amount=0.0015"},
	{"crypto no amount", CryptoRequest{Scheme: "Ethereum", Address: "0xAbC"}, "ethereum:0xAbC"},
	{"automation clipboard", Automation{Name: "Log Water", Input: "x", Clipboard: true}, "shortcuts://run-shortcut?name=Log%20Water&input=clipboard"},
	{"automation input", Automation{Name: "Add", Input: "a&b=c"}, "shortcuts://run-shortcut?name=Add&input=a%26b%3Dc"},
	{"automation bare", Automation{Name: "Lights~Off"}, "shortcuts://run-shortcut?name=Lights~Off"},
	{"email", Email{To: "a@example.com", Subject: "Hi there", Body: "1+1"}, "mailto:a@example.com?subject=Hi%20there&body=1%2B1"},
	{"email bare", Email{To: "a@example.com"}, "mailto:a@example.com"},
	{"phone", Phone{Number: "+1 555 0100"}, "tel:+15550100"},
	{"sms", SMS{Number: "5550100", Body: "ok?"}, "sms:5550100?body=ok%3F"},
	{"facetime", VideoCall{Handle: "+1 555 0100"}, "facetime:+15550100"},
	{"facetime audio", VideoCall{Handle: "a@example.com", Audio: true}, "facetime-audio:a@example.com"},
	{"tweet", SocialPost{Text: "hello world"}, "https://twitter.com/intent/tweet?text=hello%20world"},
	{"follow", SocialPost{Username: "@golang"}, "https://twitter.com/intent/follow?screen_name=golang"},
	{"mastodon", SocialPost{Network: NetworkMastodon, Instance: "mastodon.social", Text: "hi"}, "https://mastodon.social/share?text=hi"},
	{"link", Link{URL: "example.com"}, "https://example.com"},
	{"link port", Link{URL: "example.com:8080/x"}, "https://example.com:8080/x"},
	{"link scheme", Link{URL: "http://example.com/a?b=c"}, "http://example.com/a?b=c"},
	{"text", PlainText{Text: "just some words"}, "just some words"},
	{
		"event",
		CalendarEvent{
			Summary:  "Launch, v2",
			Location: "Room 1",
			Start:    time.Date(2024, 3, 1, 9, 30, 15, 5e8, time.FixedZone("EST", -5*3600)),
			End:      time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC),
		},
		"BEGIN:VEVENT\nSUMMARY:Launch\\, v2\nLOCATION:Room 1\nDTSTART:20240301T143015Z\nDTEND:20240301T150000Z\nEND:VEVENT",
	},
	{
		"contact",
		Contact{Given: "Ada", Family: "Lovelace", Org: "Analytical; Engines", Phone: "+44 20 0000", Address: "12 St James's Sq", Email: "ada@example.com", URL: "https://example.com"},
		"BEGIN:VCARD\nVERSION:3.0\nN:Lovelace;Ada;;;\nFN:Ada Lovelace\nORG:Analytical\\; Engines\nTEL;CELL:+44 20 0000\nADR;TYPE=HOME:;;12 St James's Sq\nEMAIL:ada@example.com\nURL:https://example.com\nEND:VCARD",
	},
}

func TestEncode(t *testing.T) {
	for _, tc := range encodeTests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.intent)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Encode =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestRoundTripParse(t *testing.T) {
	for _, tc := range encodeTests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Encode(tc.intent)
			if err != nil {
				t.Fatal(err)
			}
			if got := KindOf(p); got != tc.intent.Kind() {
				t.Errorf("KindOf(%q) = %s, want %s", p, got, tc.intent.Kind())
			}
			parsed, err := ParseStrict(p)
			if err != nil {
				t.Fatalf("ParseStrict(%q) failed: %v", p, err)
			}
			again, err := Encode(parsed)
			if err != nil {
				t.Fatalf("re-encode of %#v failed: %v", parsed, err)
			}
			if again != p {
				t.Errorf("re-encoded payload differs:\n%q\n%q", again, p)
			}
		})
	}
}

func TestParseFallsBackToText(t *testing.T) {
	for _, p := range []string{"WIFI:x", "geo:home", "BEGIN:VEVENT\nDTSTART:soon\nEND:VEVENT"} {
		if _, err := ParseStrict(p); !errors.Is(err, qrstyle.ErrFormat) {
			t.Errorf("ParseStrict(%q) error = %v, want ErrFormat", p, err)
		}
		got, err := Parse(p)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", p, err)
		}
		if diff := cmp.Diff(Intent(PlainText{Text: p}), got); diff != "" {
			t.Errorf("Parse(%q) (-want +got):\n%s", p, diff)
		}
	}
}

func TestParseWifiFields(t *testing.T) {
	want := WifiNetwork{SSID: `My;Net:"5G"`, Passphrase: `p\ss,word`, Security: SecurityWPA, Hidden: true}
	p, err := Encode(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseWifi(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseWifi (-want +got):\n%s", diff)
	}
}

func TestParseVEventUTC(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	p, err := Encode(CalendarEvent{Summary: "NYE\nparty", Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseVEvent(p)
	if err != nil {
		t.Fatal(err)
	}
	want := CalendarEvent{Summary: "NYE\nparty", Start: start, End: start.Add(time.Hour)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseVEvent (-want +got):\n%s", diff)
	}
}

func TestParseCryptoAmount(t *testing.T) {
	c, err := ParseCrypto("litecoin:LTC123?amount=12.50&label=x")
	if err != nil {
		t.Fatal(err)
	}
	if c.Scheme != "litecoin" || c.Address != "LTC123" || !c.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("ParseCrypto = %+v", c)
	}
}

func TestSanitizeVCard(t *testing.T) {
	src := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"PRODID:-//Apple Inc.//iPhone OS 17.0//EN",
		"N:Doe;Jane;;;",
		"FN:Jane Doe",
		"PHOTO;ENCODING=b;TYPE=JPEG:/9j/4AAQSkZJRgABAQAAAQABAAD",
		" /2wBDAAMCAgICAgMCAgIDAwMDBAYEBAQEBAgGBgUGCQgKCgkICQkKDA8M",
		"\tCgsOCwkJDRENDg8QEBEQCgwSExIQEw8QEBD",
		"item1.LOGO;VALUE=uri:https://example.com/logo.png",
		"TEL;CELL:555",
		"END:VCARD",
	}, "\r\n")
	got, err := Encode(Contact{Source: src})
	if err != nil {
		t.Fatal(err)
	}
	want := "BEGIN:VCARD\nVERSION:3.0\nN:Doe;Jane;;;\nFN:Jane Doe\nTEL;CELL:555\nEND:VCARD"
	if got != want {
		t.Errorf("sanitized vCard =\n%q\nwant\n%q", got, want)
	}
	c, err := ParseVCard(got)
	if err != nil {
		t.Fatal(err)
	}
	if c.Given != "Jane" || c.Family != "Doe" || c.Phone != "555" {
		t.Errorf("ParseVCard = %+v", c)
	}
	if _, err := Encode(Contact{Source: "PHOTO:abc"}); !errors.Is(err, qrstyle.ErrInvalidField) {
		t.Errorf("non-vCard source: err = %v, want ErrInvalidField", err)
	}
}

func TestNormalization(t *testing.T) {
	composed, err := Encode(PlainText{Text: "café"})
	if err != nil {
		t.Fatal(err)
	}
	decomposed, err := Encode(PlainText{Text: "cafe\u0301"})
	if err != nil {
		t.Fatal(err)
	}
	if composed != decomposed {
		t.Errorf("NFC forms differ: %q vs %q", composed, decomposed)
	}
}

func TestEncodeErrors(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		intent Intent
		want   error
	}{
		{"nil", nil, qrstyle.ErrMissingField},
		{"no ssid", WifiNetwork{Passphrase: "x"}, qrstyle.ErrMissingField},
		{"no passphrase", WifiNetwork{SSID: "x", Security: SecurityWPA}, qrstyle.ErrMissingField},
		{"no summary", CalendarEvent{Start: start, End: start}, qrstyle.ErrMissingField},
		{"end before start", CalendarEvent{Summary: "x", Start: start, End: start.Add(-time.Minute)}, qrstyle.ErrInvalidField},
		{"no name", Contact{Org: "Acme"}, qrstyle.ErrMissingField},
		{"lat", Location{Lat: 91}, qrstyle.ErrInvalidField},
		{"lon", Location{Lon: -181}, qrstyle.ErrInvalidField},
		{"no address", CryptoRequest{}, qrstyle.ErrMissingField},
		{"negative amount", CryptoRequest{Address: "a", Amount: decimal.NewFromInt(-1)}, qrstyle.ErrInvalidField},
		{"no automation", Automation{Input: "x"}, qrstyle.ErrMissingField},
		{"email", Email{To: "not an address"}, qrstyle.ErrInvalidField},
		{"phone letters", Phone{Number: "call me"}, qrstyle.ErrInvalidField},
		{"mastodon host", SocialPost{Network: NetworkMastodon, Text: "x"}, qrstyle.ErrMissingField},
		{"link space", Link{URL: "exa mple.com"}, qrstyle.ErrInvalidField},
		{"empty text", PlainText{}, qrstyle.ErrMissingField},
		{"too long", PlainText{Text: strings.Repeat("x", 3000)}, qrstyle.ErrFieldTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(tc.intent); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestKindNames(t *testing.T) {
	for k := KindText; k <= KindCrypto; k++ {
		got, err := ParseKind(strings.ToUpper(k.String()))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("fax"); !errors.Is(err, qrstyle.ErrInvalidField) {
		t.Errorf("unknown kind: err = %v", err)
	}
}
