package slimproto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/provide-io/slimplayer/internal/config"
)

const (
	deviceID       = 12
	firmware       = "v1.0"
	setdPlayerName = 0

	maxFrameLen = 64 * 1024
)

// Frame is a server to player message.
type Frame struct {
	Opcode string
	Data   []byte
}

// ReadFrame reads one frame: 2 byte big endian length, 4 byte opcode, data.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if n < 4 || n > maxFrameLen {
		return Frame{}, fmt.Errorf("bad frame length %d", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, err
	}
	return Frame{Opcode: string(body[:4]), Data: body[4:]}, nil
}

// EncodeFrame builds a server to player frame, used by tests and tools.
func EncodeFrame(opcode string, data []byte) []byte {
	out := binary.BigEndian.AppendUint16(nil, uint16(4+len(data)))
	out = append(out, opcode[:4]...)
	return append(out, data...)
}

// playerMessage builds a player to server message: opcode, 4 byte length, body.
func playerMessage(opcode string, body []byte) []byte {
	out := append([]byte(opcode), binary.BigEndian.AppendUint32(nil, uint32(len(body)))...)
	return append(out, body...)
}

// PlayerUUID derives a stable uuid from the player mac.
func PlayerUUID(mac config.MAC) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, mac[:])
}

// BuildHELO builds the registration message.
func BuildHELO(mac config.MAC, reconnect bool, capabilities string) []byte {
	body := []byte{deviceID, 0}
	body = append(body, mac[:]...)
	id := PlayerUUID(mac)
	body = append(body, id[:]...)
	var channels uint16
	if reconnect {
		channels = 0x4000
	}
	body = binary.BigEndian.AppendUint16(body, channels)
	body = binary.BigEndian.AppendUint64(body, 0) // bytes received
	body = append(body, "en"...)
	body = append(body, capabilities...)
	return playerMessage("HELO", body)
}

// BuildSETD reports a player setting.
func BuildSETD(id byte, value string) []byte {
	body := append([]byte{id}, value...)
	return playerMessage("SETD", append(body, 0))
}

// Capabilities is the capability string sent with HELO.
func Capabilities(p Params) string {
	model := p.ModelName
	if model == "" {
		model = config.DefaultModelName
	}
	caps := []string{
		"Model=squeezelite",
		"AccuratePlayPoints=1",
		"HasDigitalOut=1",
		"Firmware=" + firmware,
		"ModelName=" + model,
	}
	if !p.DisableDownsample && p.MaxRate > 0 {
		caps = append(caps, "MaxSampleRate="+strconv.FormatUint(uint64(p.MaxRate), 10))
	}
	caps = append(caps, p.Codecs...)
	return strings.Join(caps, ",")
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
