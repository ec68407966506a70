package protocol

// CRC16 polynomial (reflected 0x8005), initial value 0. This is the
// CRC-16/ARC variant the benchmark tool and the logger both report.
const crc16Poly = 0xA001

// CRC16Update folds one byte into crc
func CRC16Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ crc16Poly
		} else {
			crc >>= 1
		}
	}
	return crc
}

// UpdateCRC16 folds data into crc
func UpdateCRC16(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = CRC16Update(crc, b)
	}
	return crc
}

// CRC16 calculates the checksum of data from a zero start value
func CRC16(data []byte) uint16 {
	return UpdateCRC16(0, data)
}
