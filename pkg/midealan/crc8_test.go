package midealan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC8KnownVector(t *testing.T) {

	assert := assert.New(t)

	// v2 LAN packet header: static header, message type, packet length,
	// then zeroed message id, date/time and device id
	data := append([]byte{0x5A, 0x5A, 0x01, 0x11, 0x00, 0x00, 0x20, 0x00}, make([]byte, 32)...)

	assert.Equal(byte(86), CRC8(data), "crc8 over v2 packet header")
}

func TestCRC8Empty(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(byte(0), CRC8(nil), "crc8 over empty input")
}
