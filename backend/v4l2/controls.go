package v4l2

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/camio"
	"github.com/octoglot/gocamcore/driver"
)

// V4L2 control IDs, hand-rolled from include/uapi/linux/v4l2-controls.h
// (base + offset, exactly as the kernel header defines them) since this
// package avoids cgo. Real UAPI values, not placeholders: the exposure
// control here is V4L2's own V4L2_CID_EXPOSURE_ABSOLUTE, so the
// MSMF-exposure-ID mismatch the source's other backends can hit never
// arises on V4L2.
const (
	ctrlBase       = 0x00980900 // V4L2_CID_BASE
	ctrlCameraBase = 0x009A0900 // V4L2_CID_CAMERA_CLASS_BASE

	ctrlGain = ctrlBase + 19 // V4L2_CID_GAIN

	ctrlExposureAuto     = ctrlCameraBase + 1  // V4L2_CID_EXPOSURE_AUTO
	ctrlExposureAbsolute = ctrlCameraBase + 2  // V4L2_CID_EXPOSURE_ABSOLUTE (100 us units)
	ctrlFocusAbsolute    = ctrlCameraBase + 10 // V4L2_CID_FOCUS_ABSOLUTE
	ctrlFocusAuto        = ctrlCameraBase + 12 // V4L2_CID_FOCUS_AUTO
	ctrlZoomAbsolute     = ctrlCameraBase + 13 // V4L2_CID_ZOOM_ABSOLUTE
	ctrlIrisAbsolute     = ctrlCameraBase + 17 // V4L2_CID_IRIS_ABSOLUTE

	exposureAutoManual = 1 // V4L2_EXPOSURE_MANUAL
)

// Controls is the shared DeviceControls implementation for an opened V4L2
// device; Sensor/Lens/System each borrow the same fd.
type Controls struct {
	fd uintptr
	id string
}

func newControls(fd uintptr, id string) *Controls {
	return &Controls{fd: fd, id: id}
}

func (c *Controls) Sensor() driver.SensorControl { return sensorControl{c} }
func (c *Controls) Lens() driver.LensControl     { return lensControl{c} }
func (c *Controls) System() driver.SystemControl { return systemControl{c} }

func (c *Controls) getCtrl(id uint32) (int32, error) {
	ctrl := camio.Control{ID: id}
	if err := camio.Ioctl(c.fd, camio.VidiocGetCtrl, unsafe.Pointer(&ctrl)); err != nil {
		return 0, camera.WrapIO(err)
	}
	return ctrl.Value, nil
}

func (c *Controls) setCtrl(id uint32, value int32) error {
	ctrl := camio.Control{ID: id, Value: value}
	if err := camio.Ioctl(c.fd, camio.VidiocSetCtrl, unsafe.Pointer(&ctrl)); err != nil {
		return camera.WrapIO(err)
	}
	return nil
}

type sensorControl struct{ c *Controls }

func (s sensorControl) SetExposureUs(us uint32) (uint32, error) {
	if err := s.c.setCtrl(ctrlExposureAuto, exposureAutoManual); err != nil {
		return 0, err
	}
	// V4L2_CID_EXPOSURE_ABSOLUTE is in 100 microsecond units.
	if err := s.c.setCtrl(ctrlExposureAbsolute, int32(us/100)); err != nil {
		return 0, err
	}
	actual, err := s.c.getCtrl(ctrlExposureAbsolute)
	if err != nil {
		return 0, err
	}
	return uint32(actual) * 100, nil
}

func (s sensorControl) SetGainDb(db float32) (float32, error) {
	// V4L2_CID_GAIN is a driver-defined integer scale, not dB; this
	// backend maps dB linearly onto it (1 unit per dB) since V4L2 has no
	// standard dB control, reporting back whatever the driver clamped to.
	if err := s.c.setCtrl(ctrlGain, int32(db)); err != nil {
		return 0, err
	}
	actual, err := s.c.getCtrl(ctrlGain)
	if err != nil {
		return 0, err
	}
	return float32(actual), nil
}

type lensControl struct{ c *Controls }

func (l lensControl) SetFocus(value int32) error {
	if err := l.c.setCtrl(ctrlFocusAuto, 0); err != nil {
		return camera.ErrUnsupported
	}
	return l.c.setCtrl(ctrlFocusAbsolute, value)
}

func (l lensControl) SetZoom(value int32) error {
	return l.set(ctrlZoomAbsolute, value)
}

func (l lensControl) SetAperture(value int32) error {
	return l.set(ctrlIrisAbsolute, value)
}

// set maps EINVAL (the driver has no such control) to camera.ErrUnsupported.
func (l lensControl) set(id uint32, value int32) error {
	err := l.c.setCtrl(id, value)
	if errors.Is(err, unix.EINVAL) {
		return camera.ErrUnsupported
	}
	return err
}

type systemControl struct{ c *Controls }

func (s systemControl) ExportState() map[string]any {
	state := map[string]any{"backend": "v4l2", "device": s.c.id}
	if gain, err := s.c.getCtrl(ctrlGain); err == nil {
		state["gain"] = gain
	}
	if exp, err := s.c.getCtrl(ctrlExposureAbsolute); err == nil {
		state["exposure_100us"] = exp
	}
	return state
}

// ForceReset attempts a USBDEVFS_RESET on the device's USB parent, when
// the device node resolves to one. Supplements the source's no-op stub
// (spec.md §9): where a real reset mechanism exists, use it instead of
// silently succeeding.
func (s systemControl) ForceReset() error {
	usbPath, err := resolveUSBDevFSNode(s.c.id)
	if err != nil {
		return fmt.Errorf("%w: %v", camera.ErrUnsupported, err)
	}

	fd, err := camio.OpenDevice(usbPath)
	if err != nil {
		return fmt.Errorf("%w: %v", camera.ErrUnsupported, err)
	}
	defer camio.CloseDevice(fd)

	if err := camio.Ioctl(fd, camio.UsbDevFSReset, nil); err != nil {
		return camera.WrapIO(err)
	}
	return nil
}

// SetTrigger lives on the system handle, not the sensor (spec.md §4.6).
func (s systemControl) SetTrigger(cfg camera.TriggerConfig) error {
	if cfg.Mode == camera.TriggerOff {
		return nil
	}
	// No standard V4L2 UAPI control maps to arbitrary trigger source/edge
	// selection; hardware trigger beyond accepting this config is out of
	// scope (spec.md §1 Non-goals).
	return camera.ErrUnsupported
}

// resolveUSBDevFSNode maps a /dev/videoN node to its backing /dev/bus/usb
// node via sysfs, so ForceReset can issue USBDEVFS_RESET on the right
// device. Returns camera.ErrUnsupported's wrapped cause if the device
// isn't USB-backed (e.g. a built-in CSI camera).
func resolveUSBDevFSNode(videoDevicePath string) (string, error) {
	name := filepath.Base(videoDevicePath)
	sysPath := filepath.Join("/sys/class/video4linux", name, "device")
	real, err := filepath.EvalSymlinks(sysPath)
	if err != nil {
		return "", err
	}
	if !strings.Contains(real, "usb") {
		return "", fmt.Errorf("%s is not USB-backed", videoDevicePath)
	}
	// UVC nodes link to the USB interface (e.g. 1-1:1.0); busnum/devnum
	// live on its parent USB device (1-1).
	if _, err := os.Stat(filepath.Join(real, "busnum")); err != nil {
		real = filepath.Dir(real)
	}

	busRaw, err := os.ReadFile(filepath.Join(real, "busnum"))
	if err != nil {
		return "", err
	}
	devRaw, err := os.ReadFile(filepath.Join(real, "devnum"))
	if err != nil {
		return "", err
	}
	bus := strings.TrimSpace(string(busRaw))
	dev := strings.TrimSpace(string(devRaw))
	return fmt.Sprintf("/dev/bus/usb/%03s/%03s", bus, dev), nil
}
