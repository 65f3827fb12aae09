package wm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var magic = []byte("i3-ipc")

const headerLen = 14 // magic + length + type

// maxPayload bounds a single message so a corrupt header cannot make us
// allocate gigabytes.
const maxPayload = 64 << 20

func writeMessage(w io.Writer, typ uint32, payload []byte) error {
	buf := make([]byte, headerLen+len(payload))
	copy(buf, magic)
	binary.NativeEndian.PutUint32(buf[6:10], uint32(len(payload)))
	binary.NativeEndian.PutUint32(buf[10:14], typ)
	copy(buf[headerLen:], payload)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func readMessage(r io.Reader) (uint32, []byte, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	if !bytes.Equal(header[:6], magic) {
		return 0, nil, fmt.Errorf("invalid magic %q", header[:6])
	}
	length := binary.NativeEndian.Uint32(header[6:10])
	typ := binary.NativeEndian.Uint32(header[10:14])
	if length > maxPayload {
		return 0, nil, fmt.Errorf("payload of %d bytes exceeds limit", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read payload: %w", err)
	}
	return typ, payload, nil
}
