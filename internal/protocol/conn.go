package protocol

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same logical value always produces identical bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR; unknown struct fields are ignored for
// forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("protocol: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// The protocol only ever uses string map keys.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("protocol: CBOR decoder initialization failed: " + err.Error())
	}
}

// Conn frames sequential self-describing CBOR values over a
// bidirectional byte stream. Both the server session loop and the
// client use it; neither side ever touches raw bytes.
//
// A Conn is not safe for concurrent use; the protocol is strictly
// sequential per connection.
type Conn struct {
	rw  io.ReadWriter
	enc *cbor.Encoder
	dec *cbor.Decoder
}

// NewConn wraps an open (already encrypted) byte stream.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		rw:  rw,
		enc: encMode.NewEncoder(rw),
		dec: decMode.NewDecoder(rw),
	}
}

// Send encodes one value onto the stream.
func (c *Conn) Send(v any) error {
	return c.enc.Encode(v)
}

// Receive decodes the next value on the stream into v, which must be
// a pointer. A decode failure is fatal for the connection: the stream
// position is no longer trustworthy afterwards.
func (c *Conn) Receive(v any) error {
	return c.dec.Decode(v)
}

// Close closes the underlying stream when it is closable.
func (c *Conn) Close() error {
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
