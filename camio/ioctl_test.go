package camio

import "testing"

// TestOpcodeEncodingMatchesKernelLayout spot-checks VIDIOC_QUERYCAP and
// VIDIOC_STREAMON against their well-known kernel-encoded values, computed
// independently of iocEnc to catch a sign/shift regression.
func TestOpcodeEncodingMatchesKernelLayout(t *testing.T) {
	// VIDIOC_QUERYCAP = _IOR('V', 0, struct v4l2_capability) = 0x80685600
	const wantQueryCap = 0x80685600
	if VidiocQueryCap != wantQueryCap {
		t.Fatalf("VidiocQueryCap = 0x%x, want 0x%x", VidiocQueryCap, wantQueryCap)
	}

	// VIDIOC_STREAMON = _IOW('V', 18, int) = 0x40045612
	const wantStreamOn = 0x40045612
	if VidiocStreamOn != wantStreamOn {
		t.Fatalf("VidiocStreamOn = 0x%x, want 0x%x", VidiocStreamOn, wantStreamOn)
	}
}

func TestIocEncDirectionBits(t *testing.T) {
	read := iocEncRead('V', 0, 4)
	write := iocEncWrite('V', 0, 4)
	rw := iocEncReadWrite('V', 0, 4)

	if read == write {
		t.Fatalf("read and write encodings collided: 0x%x", read)
	}
	if rw&uintptr(iocOpRead<<opShift) == 0 {
		t.Fatalf("read/write encoding missing read bit")
	}
	if rw&uintptr(iocOpWrite<<opShift) == 0 {
		t.Fatalf("read/write encoding missing write bit")
	}
}

func TestOpcodesDistinctPerCommand(t *testing.T) {
	seen := map[uintptr]bool{}
	for _, op := range []uintptr{
		VidiocQueryCap, VidiocGetFormat, VidiocSetFormat, VidiocReqBufs,
		VidiocQueryBuf, VidiocQueueBuf, VidiocDequeueBuf, VidiocStreamOn, VidiocStreamOff,
	} {
		if seen[op] {
			t.Fatalf("duplicate opcode 0x%x", op)
		}
		seen[op] = true
	}
}
