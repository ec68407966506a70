package protocol

import "testing"

func TestStatusLines(t *testing.T) {
	if got := WrittenLine(0); got != "written 0" {
		t.Errorf("WrittenLine(0) = %q", got)
	}
	if got := WrittenLine(1048575); got != "written 1048575" {
		t.Errorf("WrittenLine(1048575) = %q", got)
	}
	if got := CRCLine(0x0a3f); got != "CRC16 0x0a3f" {
		t.Errorf("CRCLine(0x0a3f) = %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		line string
		want Status
		ok   bool
	}{
		{line: "LOG00042.BFL\r\n", want: Status{Kind: StatusFileOpened, File: "LOG00042.BFL"}, ok: true},
		{line: "written 1234\r\n", want: Status{Kind: StatusWritten, Bytes: 1234}, ok: true},
		{line: "CRC16 0xbb3d", want: Status{Kind: StatusCRC, CRC: 0xBB3D}, ok: true},
		{line: "written lots", ok: false},
		{line: "hello", ok: false},
	}

	for _, tc := range testCases {
		got, err := ParseStatus(tc.line)
		if tc.ok && err != nil {
			t.Errorf("ParseStatus(%q) failed: %v", tc.line, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseStatus(%q) expected error, got %+v", tc.line, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestStatusRoundTrip(t *testing.T) {
	st, err := ParseStatus(WrittenLine(987654) + LineEnd)
	if err != nil || st.Kind != StatusWritten || st.Bytes != 987654 {
		t.Errorf("written round trip: %+v, %v", st, err)
	}

	st, err = ParseStatus(CRCLine(0x00ff) + LineEnd)
	if err != nil || st.Kind != StatusCRC || st.CRC != 0x00ff {
		t.Errorf("crc round trip: %+v, %v", st, err)
	}
}

func TestFormatUint(t *testing.T) {
	testCases := map[uint32]string{
		0:          "0",
		7:          "7",
		234000:     "234000",
		4294967295: "4294967295",
	}
	for n, want := range testCases {
		if got := FormatUint(n); got != want {
			t.Errorf("FormatUint(%d) = %q, want %q", n, got, want)
		}
	}
}
