// Package jobfile reads YAML job descriptions for the command line tool.
//
// A job names what the symbol does, how it looks and where it is written:
//
//	intent:
//	  kind: wifi
//	  ssid: Home
//	  passphrase: secret1
//	design:
//	  foreground: "#1d3557"
//	  pixel_shape: rounded-path
//	  eye_shape: leaf
//	  level: high
//	  logo:
//	    path: logo.svg
//	    scale: 0.18
//	outputs:
//	  - path: wifi.png
//	    size: 1024
//	  - path: wifi.pdf
//	    size: 288
//
// Relative paths are resolved against the job file's directory.
package jobfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/export"
	"github.com/ericlevine/qrstyle/logo"
	"github.com/ericlevine/qrstyle/payload"
	"github.com/ericlevine/qrstyle/pipeline"
)

// File is the YAML document.
type File struct {
	Intent Intent `yaml:"intent"`
	// Template is a saved design.Template whose design is the base that
	// Design overrides.
	Template string   `yaml:"template,omitempty"`
	Design   Design   `yaml:"design"`
	Outputs  []Output `yaml:"outputs"`
}

// Intent holds the fields of every intent kind. Kind selects which apply.
type Intent struct {
	Kind string `yaml:"kind"`

	Text string `yaml:"text,omitempty"`
	URL  string `yaml:"url,omitempty"`

	SSID       string `yaml:"ssid,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty"`
	Security   string `yaml:"security,omitempty"`
	Hidden     bool   `yaml:"hidden,omitempty"`

	Given   string `yaml:"given,omitempty"`
	Family  string `yaml:"family,omitempty"`
	Org     string `yaml:"org,omitempty"`
	Phone   string `yaml:"phone,omitempty"`
	Address string `yaml:"address,omitempty"`
	Email   string `yaml:"email,omitempty"`
	VCard   string `yaml:"vcard,omitempty"`

	Summary  string    `yaml:"summary,omitempty"`
	Location string    `yaml:"location,omitempty"`
	Start    time.Time `yaml:"start,omitempty"`
	End      time.Time `yaml:"end,omitempty"`

	To      string `yaml:"to,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Body    string `yaml:"body,omitempty"`
	Number  string `yaml:"number,omitempty"`

	Handle string `yaml:"handle,omitempty"`
	Audio  bool   `yaml:"audio,omitempty"`

	Network  string `yaml:"network,omitempty"`
	Username string `yaml:"username,omitempty"`
	Instance string `yaml:"instance,omitempty"`

	Lat         float64 `yaml:"lat,omitempty"`
	Lon         float64 `yaml:"lon,omitempty"`
	Uncertainty float64 `yaml:"uncertainty,omitempty"`

	Name      string `yaml:"name,omitempty"`
	Input     string `yaml:"input,omitempty"`
	Clipboard bool   `yaml:"clipboard,omitempty"`

	Scheme string `yaml:"scheme,omitempty"`
	Amount string `yaml:"amount,omitempty"`
}

// Design overrides fields of the base design. Unset fields keep the base
// value.
type Design struct {
	Foreground string             `yaml:"foreground,omitempty"`
	Background string             `yaml:"background,omitempty"`
	PixelShape *design.PixelShape `yaml:"pixel_shape,omitempty"`
	EyeShape   *design.EyeShape   `yaml:"eye_shape,omitempty"`
	PupilColor string             `yaml:"pupil_color,omitempty"`
	// EyeColors lists top-left, top-right and bottom-left overrides. An
	// empty entry keeps the foreground.
	EyeColors []string       `yaml:"eye_colors,omitempty"`
	Accent    *Accent        `yaml:"accent,omitempty"`
	Logo      *Logo          `yaml:"logo,omitempty"`
	Level     *qrstyle.Level `yaml:"level,omitempty"`
}

// Accent is design.Accent with a hex color.
type Accent struct {
	Shape   design.PixelShape `yaml:"shape"`
	Color   string            `yaml:"color"`
	Opacity float64           `yaml:"opacity"`
}

// Logo loads an image file and prepares it for placement.
type Logo struct {
	Path      string            `yaml:"path"`
	Placement *design.Placement `yaml:"placement,omitempty"`
	Scale     float64           `yaml:"scale,omitempty"`
	// Rotate turns the image clockwise in quarter turns.
	Rotate  int      `yaml:"rotate,omitempty"`
	Outline *Outline `yaml:"outline,omitempty"`
}

// Outline draws a colored edge around the logo's opaque pixels.
type Outline struct {
	Width int    `yaml:"width"`
	Color string `yaml:"color"`
}

// Output is one file to write. Size sets a square; Width and Height
// override it.
type Output struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
	Size   int    `yaml:"size,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// DefaultSize is used for outputs without a size.
const DefaultSize = 1024

// Job is a resolved job file.
type Job struct {
	pipeline.Job
	// Paths holds the destination of each output, parallel to Outputs.
	Paths []string
}

// Parse decodes a job document. Unknown keys are errors.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty job file", qrstyle.ErrMissingField)
		}
		return nil, fmt.Errorf("%w: %v", qrstyle.ErrInvalidField, err)
	}
	return &f, nil
}

// Load reads and resolves the job file at path.
func Load(path string) (*Job, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	job, err := f.Resolve(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Resolve builds the job, reading referenced files relative to dir.
func (f *File) Resolve(dir string) (*Job, error) {
	intent, err := f.Intent.Build()
	if err != nil {
		return nil, err
	}
	cfg, err := f.Config(dir)
	if err != nil {
		return nil, err
	}
	if len(f.Outputs) == 0 {
		return nil, fmt.Errorf("%w: outputs", qrstyle.ErrMissingField)
	}
	job := &Job{Job: pipeline.Job{Intent: intent, Design: cfg}}
	for i, o := range f.Outputs {
		req, err := o.Request()
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		job.Outputs = append(job.Outputs, req)
		job.Paths = append(job.Paths, resolvePath(dir, o.Path))
	}
	return job, nil
}

// Config returns the design: the template's, or the default, with Design
// applied.
func (f *File) Config(dir string) (design.Config, error) {
	base := design.Default()
	if f.Template != "" {
		data, err := os.ReadFile(resolvePath(dir, f.Template))
		if err != nil {
			return design.Config{}, err
		}
		t, err := design.DecodeTemplate(data)
		if err != nil {
			return design.Config{}, fmt.Errorf("template %s: %w", f.Template, err)
		}
		base = t.Design
	}
	return f.Design.Apply(base, dir)
}

// Request returns the export request for o.
func (o Output) Request() (export.Request, error) {
	if o.Path == "" {
		return export.Request{}, fmt.Errorf("%w: path", qrstyle.ErrMissingField)
	}
	name := o.Format
	if name == "" {
		name = filepath.Ext(o.Path)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return export.Request{}, err
	}
	size := export.Square(DefaultSize)
	if o.Size != 0 {
		size = export.Square(o.Size)
	}
	if o.Width != 0 {
		size.Width = o.Width
	}
	if o.Height != 0 {
		size.Height = o.Height
	}
	return export.Request{Format: format, Size: size}, nil
}

// Apply returns base with d's fields applied.
func (d Design) Apply(base design.Config, dir string) (design.Config, error) {
	cfg := base
	var err error
	color := func(field, s string, dst *qrstyle.Color) {
		if err != nil || s == "" {
			return
		}
		var c qrstyle.Color
		if c, err = qrstyle.ParseColor(s); err != nil {
			err = fmt.Errorf("%s: %w", field, err)
			return
		}
		*dst = c
	}
	color("foreground", d.Foreground, &cfg.Foreground)
	color("background", d.Background, &cfg.Background)
	color("pupil_color", d.PupilColor, &cfg.PupilColor)
	if len(d.EyeColors) > len(cfg.EyeColors) {
		return cfg, fmt.Errorf("%w: %d eye colors", qrstyle.ErrInvalidField, len(d.EyeColors))
	}
	for i, s := range d.EyeColors {
		if s == "" {
			continue
		}
		c := new(qrstyle.Color)
		color(fmt.Sprintf("eye_colors[%d]", i), s, c)
		cfg.EyeColors[i] = c
	}
	if d.Accent != nil {
		a := &design.Accent{Shape: d.Accent.Shape, Opacity: d.Accent.Opacity}
		color("accent.color", d.Accent.Color, &a.Color)
		cfg.OffPixelAccent = a
	}
	if err != nil {
		return cfg, err
	}
	if d.PixelShape != nil {
		cfg.PixelShape = *d.PixelShape
	}
	if d.EyeShape != nil {
		cfg.EyeShape = *d.EyeShape
	}
	if d.Level != nil {
		cfg.Level = *d.Level
	}
	if l := d.Logo; l != nil {
		img, err := l.Load(dir)
		if err != nil {
			return cfg, err
		}
		cfg.Logo = &img
		if l.Placement != nil {
			cfg.LogoPlacement = *l.Placement
		}
		if l.Scale != 0 {
			cfg.LogoScale = l.Scale
		}
	}
	return cfg, cfg.Validate()
}

// Load reads, decodes and transforms the logo image.
func (l Logo) Load(dir string) (qrstyle.Image, error) {
	if l.Path == "" {
		return qrstyle.Image{}, fmt.Errorf("%w: logo.path", qrstyle.ErrMissingField)
	}
	data, err := os.ReadFile(resolvePath(dir, l.Path))
	if err != nil {
		return qrstyle.Image{}, err
	}
	img, err := logo.Decode(data)
	if err != nil {
		return qrstyle.Image{}, fmt.Errorf("logo %s: %w", l.Path, err)
	}
	if l.Rotate != 0 {
		img = logo.Rotate(img, l.Rotate)
	}
	if o := l.Outline; o != nil && o.Width > 0 {
		c := qrstyle.Black
		if o.Color != "" {
			if c, err = qrstyle.ParseColor(o.Color); err != nil {
				return qrstyle.Image{}, fmt.Errorf("logo.outline.color: %w", err)
			}
		}
		img = logo.Outline(img, o.Width, c)
	}
	return img, nil
}

// Build returns the payload intent described by in.
func (in Intent) Build() (payload.Intent, error) {
	if in.Kind == "" {
		return nil, fmt.Errorf("%w: intent.kind", qrstyle.ErrMissingField)
	}
	kind, err := payload.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case payload.KindText:
		return payload.PlainText{Text: in.Text}, nil
	case payload.KindLink:
		return payload.Link{URL: in.URL}, nil
	case payload.KindWifi:
		sec := payload.SecurityWPA
		if in.Security != "" || in.Passphrase == "" {
			if sec, err = payload.ParseSecurity(in.Security); err != nil {
				return nil, err
			}
		}
		return payload.WifiNetwork{SSID: in.SSID, Passphrase: in.Passphrase, Security: sec, Hidden: in.Hidden}, nil
	case payload.KindContact:
		return payload.Contact{
			Given: in.Given, Family: in.Family, Org: in.Org, Phone: in.Phone,
			Address: in.Address, Email: in.Email, URL: in.URL, Source: in.VCard,
		}, nil
	case payload.KindEvent:
		return payload.CalendarEvent{Summary: in.Summary, Location: in.Location, Start: in.Start, End: in.End}, nil
	case payload.KindEmail:
		return payload.Email{To: in.To, Subject: in.Subject, Body: in.Body}, nil
	case payload.KindPhone:
		return payload.Phone{Number: in.Number}, nil
	case payload.KindSMS:
		return payload.SMS{Number: in.Number, Body: in.Body}, nil
	case payload.KindVideoCall:
		return payload.VideoCall{Handle: in.Handle, Audio: in.Audio}, nil
	case payload.KindSocial:
		var network payload.Network
		switch strings.ToLower(in.Network) {
		case "", "x", "twitter":
			network = payload.NetworkX
		case "mastodon":
			network = payload.NetworkMastodon
		default:
			return nil, fmt.Errorf("%w: network %q", qrstyle.ErrInvalidField, in.Network)
		}
		return payload.SocialPost{Network: network, Text: in.Text, Username: in.Username, Instance: in.Instance}, nil
	case payload.KindLocation:
		return payload.Location{Lat: in.Lat, Lon: in.Lon, Uncertainty: in.Uncertainty}, nil
	case payload.KindAutomation:
		return payload.Automation{Name: in.Name, Input: in.Input, Clipboard: in.Clipboard}, nil
	case payload.KindCrypto:
		req := payload.CryptoRequest{Scheme: in.Scheme, Address: in.Address}
		if in.Amount != "" {
			if req.Amount, err = decimal.NewFromString(in.Amount); err != nil {
				return nil, fmt.Errorf("%w: amount %q", qrstyle.ErrInvalidField, in.Amount)
			}
		}
		return req, nil
	}
	return nil, fmt.Errorf("%w: intent kind %v", qrstyle.ErrInvalidField, kind)
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
