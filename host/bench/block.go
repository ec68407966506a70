package bench

import (
	"hash/crc32"
	"math/rand"

	"sdlogger/protocol"
)

// Block is one generated payload with its checksums
type Block struct {
	Data  []byte
	CRC16 uint16
	CRC32 uint32
}

// NewBlock fills size bytes from rng and checksums them
func NewBlock(rng *rand.Rand, size int) *Block {
	data := make([]byte, size)
	rng.Read(data)
	return &Block{
		Data:  data,
		CRC16: protocol.CRC16(data),
		CRC32: crc32.ChecksumIEEE(data),
	}
}
