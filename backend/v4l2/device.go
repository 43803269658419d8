// Package v4l2 is the Linux backend: it implements driver.Driver,
// driver.Stream, and driver.DeviceControls against /dev/videoN nodes via
// camio's non-cgo ioctl/mmap plumbing.
package v4l2

import (
	"bytes"
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/camio"
	"github.com/octoglot/gocamcore/camlog"
	"github.com/octoglot/gocamcore/driver"
	"github.com/octoglot/gocamcore/negotiate"
)

// Backend implements driver.Driver for Video4Linux2 devices.
type Backend struct{}

// New returns a V4L2 Backend. There is no process-wide subsystem to
// initialize (unlike Windows Media Foundation/COM), so this never calls
// driver.RefCountedInit.
func New() *Backend { return &Backend{} }

// Enumerate globs /dev/video* and queries each node's capability struct,
// skipping nodes that don't advertise single-planar video capture.
func (b *Backend) Enumerate() ([]camera.DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, camera.WrapIO(err)
	}

	var out []camera.DeviceInfo
	for _, path := range paths {
		fd, err := camio.OpenDevice(path)
		if err != nil {
			camlog.L().Debug("v4l2: skip %s: %v", path, err)
			continue
		}

		var cap camio.Capability
		err = camio.Ioctl(fd, camio.VidiocQueryCap, unsafe.Pointer(&cap))
		_ = camio.CloseDevice(fd)
		if err != nil {
			camlog.L().Debug("v4l2: QUERYCAP %s: %v", path, err)
			continue
		}

		caps := cap.Capabilities
		if caps&camio.CapDeviceCaps != 0 {
			caps = cap.DeviceCaps
		}
		if caps&camio.CapVideoCapture == 0 {
			continue
		}

		out = append(out, camera.DeviceInfo{
			Name:    cString(cap.Card[:]),
			ID:      path,
			Backend: "V4L2",
			BusInfo: cString(cap.BusInfo[:]),
		})
	}
	return out, nil
}

// Open negotiates cfg against id's advertised formats and returns a
// ready-to-Start Stream and its DeviceControls.
func (b *Backend) Open(id string, cfg camera.CameraConfig) (driver.Stream, driver.DeviceControls, error) {
	fd, err := camio.OpenDevice(id)
	if err != nil {
		return nil, nil, camera.WrapIO(err)
	}

	var cap camio.Capability
	if err := camio.Ioctl(fd, camio.VidiocQueryCap, unsafe.Pointer(&cap)); err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, camera.WrapIO(err)
	}
	caps := cap.Capabilities
	if caps&camio.CapDeviceCaps != 0 {
		caps = cap.DeviceCaps
	}
	if caps&camio.CapVideoCapture == 0 || caps&camio.CapStreaming == 0 {
		_ = camio.CloseDevice(fd)
		return nil, nil, fmt.Errorf("%w: %s lacks capture+streaming caps", camera.ErrUnsupported, id)
	}

	candidates, err := enumerateCandidates(fd)
	if err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, err
	}

	negotiated, err := negotiate.Negotiate(cfg, negotiate.FromSlice(candidates))
	if err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, err
	}

	native, ok := toNative(negotiated.Format)
	if !ok {
		_ = camio.CloseDevice(fd)
		return nil, nil, fmt.Errorf("%w: no native encoding for %v", camera.ErrFormatNotSupported, negotiated.Format)
	}

	var format camio.Format
	format.Type = camio.BufTypeVideoCapture
	pix := format.Pix()
	pix.Width = negotiated.Width
	pix.Height = negotiated.Height
	pix.PixelFormat = native
	pix.Field = camio.FieldAny

	if err := camio.Ioctl(fd, camio.VidiocSetFormat, unsafe.Pointer(&format)); err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, camera.WrapIO(err)
	}

	// The driver may adjust width/height/stride; trust what it reports back.
	negotiated.Width = pix.Width
	negotiated.Height = pix.Height
	stride := int(pix.BytesPerLine)

	if err := checkBandwidth(negotiated); err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, err
	}

	s, err := newStream(fd, id, negotiated, stride, cfg.ResolvedBufferCount())
	if err != nil {
		_ = camio.CloseDevice(fd)
		return nil, nil, err
	}

	controls := newControls(fd, id)
	return s, controls, nil
}

// usbHighSpeedMbps is the USB 2.0 High-Speed link budget most UVC webcams
// negotiate against in practice. Uncompressed 1080p30 YUYV (about 995 Mbps
// by checkBandwidth's estimate) exceeds it, while 720p30 YUYV (about 442
// Mbps) still fits; the former is the case spec.md §7's BandwidthExceeded
// exists to catch.
const usbHighSpeedMbps = 480

// checkBandwidth estimates the negotiated format's required bus bandwidth
// from its bits-per-pixel (pixfmt.BppEstimate) times resolution times fps,
// and rejects it before the stream is built if it would exceed what a
// single USB 2.0 High-Speed link can carry (spec.md §7's BandwidthExceeded,
// modeled on the width*height*fps*bpp budget in the pack's dashboard
// example).
func checkBandwidth(negotiated camera.NegotiatedFormat) error {
	bpp := negotiated.Format.BppEstimate()
	if bpp == 0 {
		return nil
	}
	bitsPerSecond := uint64(negotiated.Width) * uint64(negotiated.Height) * uint64(negotiated.FPS) * uint64(bpp)
	requiredMbps := uint32(bitsPerSecond / 1_000_000)
	if requiredMbps <= usbHighSpeedMbps {
		return nil
	}
	return &camera.BandwidthError{
		RequiredMbps: requiredMbps,
		LimitMbps:    usbHighSpeedMbps,
		Suggestion:   "switch to a compressed format such as MJPEG or lower the resolution/fps",
	}
}

func enumerateCandidates(fd uintptr) ([]negotiate.Candidate, error) {
	var candidates []negotiate.Candidate

	for fi := uint32(0); ; fi++ {
		var desc camio.FmtDesc
		desc.Index = fi
		desc.Type = camio.BufTypeVideoCapture
		if err := camio.Ioctl(fd, camio.VidiocEnumFmt, unsafe.Pointer(&desc)); err != nil {
			break // EINVAL: no more formats
		}

		for si := uint32(0); ; si++ {
			var fse camio.FrameSizeEnum
			fse.Index = si
			fse.PixelFormat = desc.PixelFormat
			if err := camio.Ioctl(fd, camio.VidiocEnumFrameSizes, unsafe.Pointer(&fse)); err != nil {
				break
			}
			if fse.Type != camio.FrameSizeTypeDiscrete {
				// Stepwise/continuous ranges aren't modeled; skip.
				continue
			}
			candidates = append(candidates, negotiate.Candidate{
				Width:  fse.Discrete.Width,
				Height: fse.Discrete.Height,
				Format: fromNative(desc.PixelFormat),
			})
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: device advertised no formats", camera.ErrFormatNotSupported)
	}
	return candidates, nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
