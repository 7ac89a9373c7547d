// Package dfplayer drives a DFPlayer Mini MP3 module over its serial protocol.
package dfplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame layout: start, version, length, command, feedback, param hi/lo,
// checksum hi/lo, end.
const (
	frameStart   byte = 0x7E
	frameVersion byte = 0xFF
	frameLength  byte = 0x06
	frameEnd     byte = 0xEF

	FrameSize = 10
)

// Commands sent to the module.
const (
	CmdPlayTrack   byte = 0x03
	CmdVolume      byte = 0x06
	CmdReset       byte = 0x0C
	CmdResume      byte = 0x0D
	CmdStop        byte = 0x16
	CmdQueryStatus byte = 0x42
)

// Messages sent by the module.
const (
	EvtCardInserted byte = 0x3A
	EvtCardRemoved  byte = 0x3B
	EvtTrackDone    byte = 0x3D
	EvtInit         byte = 0x3F
	EvtError        byte = 0x40
	EvtAck          byte = 0x41
)

var (
	errBadChecksum = errors.New("dfplayer: bad checksum")
	errBadFrame    = errors.New("dfplayer: malformed frame")
	errNoFrame     = errors.New("dfplayer: no response")
)

// Frame is a single protocol message.
type Frame struct {
	Command  byte
	Feedback bool
	Param    uint16
}

// Bytes encodes the frame for the wire.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	b[0] = frameStart
	b[1] = frameVersion
	b[2] = frameLength
	b[3] = f.Command
	if f.Feedback {
		b[4] = 0x01
	}
	binary.BigEndian.PutUint16(b[5:7], f.Param)
	binary.BigEndian.PutUint16(b[7:9], checksum(b))
	b[9] = frameEnd
	return b
}

func (f Frame) String() string {
	return fmt.Sprintf("cmd=0x%02X param=%d", f.Command, f.Param)
}

// checksum is the two's complement of the sum of version..param lo.
func checksum(b []byte) uint16 {
	var sum uint16
	for _, v := range b[1:7] {
		sum += uint16(v)
	}
	return 0 - sum
}

// ParseFrame decodes a FrameSize byte message.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) != FrameSize || b[0] != frameStart || b[9] != frameEnd || b[2] != frameLength {
		return Frame{}, errBadFrame
	}
	if binary.BigEndian.Uint16(b[7:9]) != checksum(b) {
		return Frame{}, errBadChecksum
	}
	return Frame{
		Command:  b[3],
		Feedback: b[4] == 0x01,
		Param:    binary.BigEndian.Uint16(b[5:7]),
	}, nil
}

// readFrame scans r for the next frame start and decodes the frame behind it.
// A read returning no data is treated as a timeout.
func readFrame(r io.Reader) (Frame, error) {
	buf := make([]byte, FrameSize)
	one := buf[:1]
	for {
		n, err := r.Read(one)
		if err != nil {
			return Frame{}, err
		}
		if n == 0 {
			return Frame{}, errNoFrame
		}
		if one[0] == frameStart {
			break
		}
	}

	got := 1
	for got < FrameSize {
		n, err := r.Read(buf[got:])
		if err != nil {
			return Frame{}, err
		}
		if n == 0 {
			return Frame{}, errNoFrame
		}
		got += n
	}
	return ParseFrame(buf)
}
