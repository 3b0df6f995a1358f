package midealan

import (
	"errors"
)

const (
	frameSyncByte = 0xAA
	headerLength  = 10

	// Frame message types.
	MessageTypeSet     byte = 0x02
	MessageTypeQuery   byte = 0x03
	MessageTypeNotify1 byte = 0x04
	MessageTypeNotify2 byte = 0x05

	// Appliance family discriminators.
	DeviceTypeX40 byte = 0x40
)

var (
	ErrFrameTooShort = errors.New("midealan: frame too short")
	ErrBadSyncByte   = errors.New("midealan: bad sync byte")
	ErrBadChecksum   = errors.New("midealan: checksum mismatch")
	ErrBadCRC        = errors.New("midealan: body crc mismatch")
)

// Message is any appliance message that can be serialized to a wire frame.
type Message interface {
	Encode() []byte
}

// Frame is one appliance LAN frame: a 10-byte header, a body made of a
// body-type byte plus payload, a CRC8 over the body and a trailing checksum
// over everything after the sync byte.
type Frame struct {
	DeviceType      byte
	ProtocolVersion byte
	MessageType     byte
	BodyType        byte
	// Payload is the body after the body-type byte, CRC excluded.
	Payload []byte
}

// Body returns the body-type byte followed by the payload, so indexes match
// the appliance protocol documentation (body[0] is the body type).
func (f Frame) Body() []byte {
	body := make([]byte, 0, len(f.Payload)+1)
	body = append(body, f.BodyType)
	return append(body, f.Payload...)
}

// EncodeFrame serializes a frame. The header length byte covers header, body
// and CRC8 but not the trailing checksum.
func EncodeFrame(f Frame) []byte {
	body := f.Body()
	length := headerLength + len(body) + 1
	frame := make([]byte, 0, length+1)
	frame = append(frame,
		frameSyncByte,
		byte(length),
		f.DeviceType,
		0x00, 0x00, 0x00, 0x00, 0x00,
		f.ProtocolVersion,
		f.MessageType,
	)
	frame = append(frame, body...)
	frame = append(frame, CRC8(body))
	frame = append(frame, checksum(frame[1:]))
	return frame
}

// DecodeFrame validates sync byte, declared length, checksum and CRC8,
// returning the parsed header fields and body.
func DecodeFrame(raw []byte) (*Frame, error) {
	if len(raw) < headerLength+3 {
		return nil, ErrFrameTooShort
	}
	if raw[0] != frameSyncByte {
		return nil, ErrBadSyncByte
	}
	length := int(raw[1])
	if length < headerLength+2 || len(raw) < length+1 {
		return nil, ErrFrameTooShort
	}
	frame := raw[:length+1]
	if checksum(frame[1:length]) != frame[length] {
		return nil, ErrBadChecksum
	}
	body := frame[headerLength:length]
	crc := body[len(body)-1]
	body = body[:len(body)-1]
	if CRC8(body) != crc {
		return nil, ErrBadCRC
	}
	payload := make([]byte, len(body)-1)
	copy(payload, body[1:])
	return &Frame{
		DeviceType:      frame[2],
		ProtocolVersion: frame[8],
		MessageType:     frame[9],
		BodyType:        body[0],
		Payload:         payload,
	}, nil
}

// SplitFrames splits a receive buffer into individual frames using the
// header length byte. Trailing garbage or a truncated last frame is dropped.
func SplitFrames(buf []byte) [][]byte {
	var frames [][]byte
	for len(buf) >= 2 && buf[0] == frameSyncByte {
		frameLen := int(buf[1]) + 1
		if frameLen <= 2 || len(buf) < frameLen {
			break
		}
		frames = append(frames, buf[:frameLen])
		buf = buf[frameLen:]
	}
	return frames
}

func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
