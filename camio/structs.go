package camio

import "golang.org/x/sys/unix"

// Buffer type and memory constants from linux/videodev2.h, hand-rolled
// since this package avoids cgo.
const (
	BufTypeVideoCapture = 1
	FieldAny            = 0
	MemoryMMap          = 1
)

// Capability bits this module cares about.
const (
	CapVideoCapture = 0x00000001
	CapStreaming    = 0x04000000
	CapDeviceCaps   = 0x80000000
)

// Capability mirrors struct v4l2_capability.
type Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

// PixFormat mirrors struct v4l2_pix_format, the payload of the anonymous
// union inside struct v4l2_format for V4L2_BUF_TYPE_VIDEO_CAPTURE.
type PixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  uint32
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	YCbCrEnc     uint32
	Quantization uint32
	XferFunc     uint32
}

// Format mirrors struct v4l2_format: a type tag followed by a union big
// enough to hold any of the per-type payload structs. Only the
// VIDEO_CAPTURE (PixFormat) member is used here.
type Format struct {
	Type uint32
	_    [4]byte // pad union to the 8-byte alignment the kernel struct uses
	Raw  [200]byte
}

// Pix returns the PixFormat view into Format's union payload.
func (f *Format) Pix() *PixFormat {
	return (*PixFormat)(pointerInto(f.Raw[:]))
}

// RequestBuffers mirrors struct v4l2_requestbuffers.
type RequestBuffers struct {
	Count    uint32
	Type     uint32
	Memory   uint32
	Reserved [2]uint32
}

// Timecode mirrors struct v4l2_timecode.
type Timecode struct {
	Type     uint32
	Flags    uint32
	Frames   uint8
	Seconds  uint8
	Minutes  uint8
	Hours    uint8
	UserBits [4]uint8
}

// Buffer mirrors struct v4l2_buffer for the single-planar mmap path.
type Buffer struct {
	Index     uint32
	Type      uint32
	BytesUsed uint32
	Flags     uint32
	Field     uint32
	Timestamp unix.Timeval
	Timecode  Timecode
	Sequence  uint32
	Memory    uint32
	Offset    uint32
	_         uint32 // union padding (userptr/planes not used here)
	Length    uint32
	Reserved2 uint32
	Reserved  uint32
}

// FmtDesc mirrors struct v4l2_fmtdesc, used to enumerate the pixel formats
// a device supports via VIDIOC_ENUM_FMT.
type FmtDesc struct {
	Index       uint32
	Type        uint32
	Flags       uint32
	Description [32]byte
	PixelFormat uint32
	Reserved    [4]uint32
}

// frmSizeDiscrete mirrors struct v4l2_frmsize_discrete.
type frmSizeDiscrete struct {
	Width  uint32
	Height uint32
}

// FrameSizeEnum mirrors struct v4l2_frmsizeenum for the common
// V4L2_FRMSIZE_TYPE_DISCRETE case (stepwise/continuous sizes aren't used
// here). The kernel struct's union is wide enough for either shape; only
// the discrete fields are read.
type FrameSizeEnum struct {
	Index       uint32
	PixelFormat uint32
	Type        uint32
	Discrete    frmSizeDiscrete
	_           [16]byte // remaining union space for stepwise sizes, unused
	Reserved    [2]uint32
}

// FrameSizeTypeDiscrete is V4L2_FRMSIZE_TYPE_DISCRETE.
const FrameSizeTypeDiscrete = 1

// Control mirrors struct v4l2_control, the legacy single-value control
// get/set shape used by VIDIOC_G_CTRL/VIDIOC_S_CTRL.
type Control struct {
	ID    uint32
	Value int32
}
