package payload

import (
	"fmt"
	"strings"

	"github.com/ericlevine/qrstyle"
)

// Security is the authentication kind of a wireless network.
type Security int

const (
	SecurityWPA Security = iota
	SecurityWEP
	SecurityOpen
)

func (s Security) token() string {
	switch s {
	case SecurityWPA:
		return "WPA"
	case SecurityWEP:
		return "WEP"
	}
	return ""
}

func (s Security) String() string {
	if s == SecurityOpen {
		return "open"
	}
	return s.token()
}

// ParseSecurity accepts WPA, WEP, open, nopass or an empty string.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WPA", "WPA2", "WPA3", "SAE":
		return SecurityWPA, nil
	case "WEP":
		return SecurityWEP, nil
	case "", "OPEN", "NOPASS", "NONE":
		return SecurityOpen, nil
	}
	return 0, fmt.Errorf("%w: security %q", qrstyle.ErrInvalidField, s)
}

// WifiNetwork joins a wireless network.
type WifiNetwork struct {
	SSID       string
	Passphrase string
	Security   Security
	Hidden     bool
}

func (WifiNetwork) Kind() Kind { return KindWifi }

func (w WifiNetwork) encode() (string, error) {
	if w.SSID == "" {
		return "", missing("ssid")
	}
	pass := w.Passphrase
	switch w.Security {
	case SecurityWPA, SecurityWEP:
		if pass == "" {
			return "", missing("passphrase")
		}
	case SecurityOpen:
		pass = ""
	default:
		return "", invalid("security", "%d", int(w.Security))
	}

	var sb strings.Builder
	sb.WriteString("WIFI:T:")
	sb.WriteString(w.Security.token())
	sb.WriteString(";S:")
	sb.WriteString(escapeWifi(nfc(w.SSID)))
	sb.WriteString(";P:")
	sb.WriteString(escapeWifi(nfc(pass)))
	sb.WriteString(";")
	if w.Hidden {
		sb.WriteString("H:true;")
	}
	sb.WriteString(";")
	return sb.String(), nil
}

// ParseWifi parses a WIFI configuration string.
func ParseWifi(s string) (WifiNetwork, error) {
	body, ok := strings.CutPrefix(s, "WIFI:")
	if !ok || !strings.HasSuffix(body, ";;") {
		return WifiNetwork{}, fmt.Errorf("%w: not a WIFI string", qrstyle.ErrFormat)
	}
	var w WifiNetwork
	var sawSSID bool
	for _, field := range splitEscaped(strings.TrimSuffix(body, ";"), ';') {
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			return WifiNetwork{}, fmt.Errorf("%w: WIFI field %q", qrstyle.ErrFormat, field)
		}
		switch key {
		case "T":
			sec, err := ParseSecurity(value)
			if err != nil {
				return WifiNetwork{}, err
			}
			w.Security = sec
		case "S":
			w.SSID, sawSSID = value, true
		case "P":
			w.Passphrase = value
		case "H":
			w.Hidden = value == "true"
		}
	}
	if !sawSSID {
		return WifiNetwork{}, fmt.Errorf("%w: WIFI string without S field", qrstyle.ErrFormat)
	}
	return w, nil
}
