// Package payload serializes intents into the text micro-formats that QR
// scanners act on: WIFI configuration strings, vCards, VEVENTs and URIs.
//
// Every encoder is a pure function. Free-text fields are normalized to NFC
// so that equal input always yields byte-identical payloads.
package payload

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
)

// Kind identifies an intent variant.
type Kind int

const (
	KindText Kind = iota
	KindLink
	KindWifi
	KindContact
	KindEvent
	KindEmail
	KindPhone
	KindSMS
	KindVideoCall
	KindSocial
	KindLocation
	KindAutomation
	KindCrypto
)

var kindNames = [...]string{
	KindText:       "text",
	KindLink:       "link",
	KindWifi:       "wifi",
	KindContact:    "contact",
	KindEvent:      "event",
	KindEmail:      "email",
	KindPhone:      "phone",
	KindSMS:        "sms",
	KindVideoCall:  "videocall",
	KindSocial:     "social",
	KindLocation:   "location",
	KindAutomation: "automation",
	KindCrypto:     "crypto",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown intent kind %q", qrstyle.ErrInvalidField, s)
}

// Intent is something a scanned symbol should do. The set of implementations
// is closed.
type Intent interface {
	Kind() Kind
	encode() (string, error)
}

// Encode serializes intent into its payload string. It fails with
// qrstyle.ErrMissingField, qrstyle.ErrInvalidField or, when the result would
// not fit the largest symbol at the lowest correction level,
// qrstyle.ErrFieldTooLong.
func Encode(intent Intent) (string, error) {
	if intent == nil {
		return "", fmt.Errorf("%w: intent", qrstyle.ErrMissingField)
	}
	p, err := intent.encode()
	if err != nil {
		return "", fmt.Errorf("%s: %w", intent.Kind(), err)
	}
	if !encoder.Fits(p, qrstyle.LevelLow) {
		return "", fmt.Errorf("%s: %w: payload is %d bytes", intent.Kind(), qrstyle.ErrFieldTooLong, len(p))
	}
	return p, nil
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", qrstyle.ErrMissingField, field)
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", qrstyle.ErrInvalidField, field, fmt.Sprintf(format, args...))
}

// PlainText is arbitrary text shown by the scanner.
type PlainText struct {
	Text string
}

func (PlainText) Kind() Kind { return KindText }

func (t PlainText) encode() (string, error) {
	if t.Text == "" {
		return "", missing("text")
	}
	return nfc(t.Text), nil
}
