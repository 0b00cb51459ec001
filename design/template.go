package design

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericlevine/qrstyle"
)

// Template is a design with the metadata a caller stores alongside it.
type Template struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	Design    Config
}

// NewTemplate returns a template with a fresh random ID.
func NewTemplate(title string, cfg Config, createdAt time.Time) Template {
	return Template{ID: uuid.New(), Title: title, CreatedAt: createdAt, Design: cfg}
}

type wireTemplate struct {
	ID        []byte `cbor:"1,keyasint"`
	Title     string `cbor:"2,keyasint,omitempty"`
	CreatedAt string `cbor:"3,keyasint,omitempty"`
	Design    []byte `cbor:"4,keyasint"`
	Logo      []byte `cbor:"5,keyasint,omitempty"`
}

// EncodeTemplate bundles t into one blob. The logo is stored as PNG.
func EncodeTemplate(t Template) ([]byte, error) {
	blob, logo, err := EncodeSplit(t.Design)
	if err != nil {
		return nil, err
	}
	w := wireTemplate{ID: t.ID[:], Title: t.Title, Design: blob, Logo: logo}
	if !t.CreatedAt.IsZero() {
		w.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return encMode.Marshal(w)
}

// DecodeTemplate restores a bundle written by EncodeTemplate.
func DecodeTemplate(data []byte) (Template, error) {
	var w wireTemplate
	if err := decMode.Unmarshal(data, &w); err != nil {
		return Template{}, fmt.Errorf("%w: %v", qrstyle.ErrCorruptData, err)
	}
	id, err := uuid.FromBytes(w.ID)
	if err != nil {
		return Template{}, fmt.Errorf("%w: template id: %v", qrstyle.ErrCorruptData, err)
	}
	t := Template{ID: id, Title: w.Title}
	if w.CreatedAt != "" {
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, w.CreatedAt); err != nil {
			return Template{}, fmt.Errorf("%w: created at: %v", qrstyle.ErrCorruptData, err)
		}
	}
	if t.Design, err = Decode(w.Design, w.Logo); err != nil {
		return Template{}, err
	}
	return t, nil
}
