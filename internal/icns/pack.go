package icns

import "encoding/binary"

// Pack builds ICNS test fixtures from chunk tags and payloads; it is not a
// general ICNS writer. Offset and Length of the inputs are ignored.
func Pack(chunks ...Chunk) []byte {
	total := fileHeaderLen
	for _, c := range chunks {
		total += chunkHeaderLen + len(c.Payload)
	}

	out := make([]byte, 0, total)
	out = append(out, Magic...)
	out = binary.BigEndian.AppendUint32(out, uint32(total))
	for _, c := range chunks {
		out = append(out, (c.Tag + "    ")[:4]...)
		out = binary.BigEndian.AppendUint32(out, uint32(chunkHeaderLen+len(c.Payload)))
		out = append(out, c.Payload...)
	}
	return out
}
