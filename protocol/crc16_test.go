package protocol

import "testing"

func TestCRC16(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{data: []byte{}, expected: 0x0000},
		{data: []byte("123456789"), expected: 0xBB3D}, // CRC-16/ARC check value
		{data: []byte{0x01}, expected: 0xC0C1},
	}

	for i, tc := range testCases {
		result := CRC16(tc.data)
		if result != tc.expected {
			t.Errorf("Test case %d: CRC16(%v) = 0x%04X, want 0x%04X", i, tc.data, result, tc.expected)
		}
	}
}

func TestCRC16Incremental(t *testing.T) {
	data := []byte("continuous data logger")

	var crc uint16
	for _, chunk := range [][]byte{data[:5], data[5:11], data[11:]} {
		crc = UpdateCRC16(crc, chunk)
	}

	if want := CRC16(data); crc != want {
		t.Errorf("Incremental CRC16 = 0x%04X, one-shot = 0x%04X", crc, want)
	}
}

func TestCRC16Different(t *testing.T) {
	data1 := []byte{0x01, 0x02, 0x03}
	data2 := []byte{0x01, 0x02, 0x04}

	if CRC16(data1) == CRC16(data2) {
		t.Errorf("CRC16 collision: both inputs produced %04X", CRC16(data1))
	}
}
