// Package source reads input files and decodes them into text.
package source

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DecodeError reports input bytes that could not be decoded under the
// assumed text encoding.
type DecodeError struct {
	Path     string
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %s as %s: %v", e.Path, e.Encoding, e.Err)
	}
	return fmt.Sprintf("cannot decode %s as %s", e.Path, e.Encoding)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Skippable marks the error as tolerable for lenient batch processing.
func (e *DecodeError) Skippable() bool {
	return true
}

// Load reads a file and decodes it under the named IANA encoding. An empty
// name means utf-8. Decoding failures come back as *DecodeError; read
// failures are returned as-is.
func Load(path, encName string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(data, path, encName)
}

// Decode converts raw bytes to a string under the named encoding.
func Decode(data []byte, path, encName string) (string, error) {
	if encName == "" {
		encName = "utf-8"
	}

	enc, err := ianaindex.IANA.Encoding(encName)
	if err != nil || enc == nil {
		return "", &DecodeError{Path: path, Encoding: encName, Err: fmt.Errorf("unknown encoding")}
	}

	// The UTF-8 decoder substitutes replacement characters instead of
	// failing, so validate it directly.
	name, _ := ianaindex.IANA.Name(enc)
	if name == "UTF-8" {
		if !utf8.Valid(data) {
			return "", &DecodeError{Path: path, Encoding: encName}
		}
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", &DecodeError{Path: path, Encoding: encName, Err: err}
	}
	return string(decoded), nil
}
