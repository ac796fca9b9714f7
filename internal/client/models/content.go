package models

import "fmt"

// ContentKind is the closed set of ways a fragment body can be decoded.
type ContentKind int

const (
	// KindUnsupported marks a media type the client does not decode.
	KindUnsupported ContentKind = iota
	KindText
	KindJSON
	KindBinary
)

func (k ContentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindBinary:
		return "binary"
	default:
		return "unsupported"
	}
}

// Content is a decoded fragment body. Exactly one of Text, JSON or Ref is
// meaningful, selected by Kind. Raw keeps the undecoded bytes for
// KindUnsupported.
type Content struct {
	Kind      ContentKind
	MediaType string

	Text string
	JSON any
	Ref  string
	Raw  []byte

	// Size is the number of body bytes received.
	Size int
}

func (c Content) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindJSON:
		return fmt.Sprintf("%v", c.JSON)
	case KindBinary:
		return c.Ref
	default:
		return fmt.Sprintf("<%s, %d bytes>", c.MediaType, c.Size)
	}
}
