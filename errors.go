package qrstyle

import "errors"

// Payload and symbol encoding failures.
var (
	// ErrMissingField is returned when an intent lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrFieldTooLong is returned when a field makes the payload exceed the
	// largest symbol at the lowest correction level.
	ErrFieldTooLong = errors.New("field too long")

	// ErrInvalidField is returned when a field value is out of range or malformed.
	ErrInvalidField = errors.New("invalid field")

	// ErrPayloadTooLarge is returned when no symbol version can hold the payload.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Logo composition failures.
var (
	ErrContainsQRCode             = errors.New("logo contains a QR code")
	ErrUnsupportedImage           = errors.New("unsupported image")
	ErrLogoOverlapsPattern        = errors.New("logo overlaps a function pattern")
	ErrOcclusionExceedsCorrection = errors.New("logo occlusion exceeds error correction")
)

// Export failures.
var (
	ErrRasterizationFailed = errors.New("rasterization failed")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
)

// ErrCorruptData is returned when a persisted design cannot be restored.
var ErrCorruptData = errors.New("corrupt design data")

// Symbol reading failures.
var (
	// ErrNotFound is returned when no symbol is found in the image.
	ErrNotFound = errors.New("symbol not found")

	// ErrChecksum is returned when error correction cannot recover the codewords.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when the symbol structure cannot be parsed.
	ErrFormat = errors.New("format error")
)
