package filehandler

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrorPolicy decides what happens to text the target encoding cannot
// represent.
type ErrorPolicy string

const (
	// Strict fails the write.
	Strict ErrorPolicy = "strict"
	// Replace substitutes the encoding's replacement character.
	Replace ErrorPolicy = "replace"
	// Ignore drops the offending characters.
	Ignore ErrorPolicy = "ignore"
)

// EncodeError is returned by a write whose record could not be encoded
// under the Strict policy.
type EncodeError struct {
	Encoding string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode record as %s: %v", e.Encoding, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// codec converts formatted UTF-8 records to the configured encoding.
type codec struct {
	name   string
	enc    encoding.Encoding
	policy ErrorPolicy
	utf8   bool
}

func newCodec(name string, policy ErrorPolicy) (*codec, error) {
	if name == "" {
		name = "utf-8"
	}
	switch policy {
	case "":
		policy = Strict
	case Strict, Replace, Ignore:
	default:
		return nil, fmt.Errorf("unknown encoding error policy %q", policy)
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return &codec{
		name:   name,
		enc:    enc,
		policy: policy,
		utf8:   enc == unicode.UTF8 || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8"),
	}, nil
}

// encode returns src in the target encoding. The result may alias src or
// dst.
func (c *codec) encode(dst *bytes.Buffer, src []byte) ([]byte, error) {
	if !utf8.Valid(src) {
		switch c.policy {
		case Strict:
			return nil, &EncodeError{Encoding: c.name, Err: encoding.ErrInvalidUTF8}
		case Replace:
			src = bytes.ToValidUTF8(src, []byte(string(utf8.RuneError)))
		case Ignore:
			src = bytes.ToValidUTF8(src, nil)
		}
	}
	if c.utf8 {
		return src, nil
	}

	dst.Reset()
	switch c.policy {
	case Replace:
		out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes(src)
		if err != nil {
			return nil, &EncodeError{Encoding: c.name, Err: err}
		}
		return out, nil
	case Ignore:
		e := c.enc.NewEncoder()
		for len(src) > 0 {
			_, size := utf8.DecodeRune(src)
			if out, err := e.Bytes(src[:size]); err == nil {
				dst.Write(out)
			}
			src = src[size:]
		}
		return dst.Bytes(), nil
	default:
		out, err := c.enc.NewEncoder().Bytes(src)
		if err != nil {
			return nil, &EncodeError{Encoding: c.name, Err: err}
		}
		return out, nil
	}
}
