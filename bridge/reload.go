package bridge

import (
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/driver"
)

// reload implements hot-reconfiguration (spec.md §4.8): stop and drop the
// old stream, then reopen the device against newCfg. Only called from
// inside run(), so the bridge goroutine is the sole caller and no extra
// locking is needed around oldStream.
//
// On failure the bridge has no stream left; run() sets its local stream to
// nil and reports the error, leaving the device closed until the caller
// retries with another SetResolution/SetFPS/SetFormat.
func reload(d driver.Driver, id string, newCfg camera.CameraConfig, oldStream driver.Stream) (driver.Stream, driver.DeviceControls, error) {
	if oldStream != nil {
		_ = oldStream.Stop()
		_ = oldStream.Close()
	}

	newStream, newControls, err := d.Open(id, newCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := newStream.Start(); err != nil {
		_ = newStream.Stop()
		_ = newStream.Close()
		return nil, nil, err
	}
	return newStream, newControls, nil
}
