package v4l2simu

import (
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/driver"
)

// Controls is a fully in-memory driver.DeviceControls: it tracks the last
// value set and echoes it back, rather than clamping to any real sensor
// range, since no simulated hardware defines one.
type Controls struct {
	id string

	exposureUs uint32
	gainDb     float32
	focus      int32
	zoom       int32
	aperture   int32
	resetCount int
}

func (c *Controls) Sensor() driver.SensorControl { return sensorControl{c} }
func (c *Controls) Lens() driver.LensControl     { return lensControl{c} }
func (c *Controls) System() driver.SystemControl { return systemControl{c} }

type sensorControl struct{ c *Controls }

func (s sensorControl) SetExposureUs(us uint32) (uint32, error) {
	s.c.exposureUs = us
	return us, nil
}

func (s sensorControl) SetGainDb(db float32) (float32, error) {
	s.c.gainDb = db
	return db, nil
}

type lensControl struct{ c *Controls }

func (l lensControl) SetFocus(value int32) error    { l.c.focus = value; return nil }
func (l lensControl) SetZoom(value int32) error     { l.c.zoom = value; return nil }
func (l lensControl) SetAperture(value int32) error { l.c.aperture = value; return nil }

type systemControl struct{ c *Controls }

func (s systemControl) ExportState() map[string]any {
	return map[string]any{
		"backend":  "v4l2sim",
		"device":   s.c.id,
		"gain":     s.c.gainDb,
		"exposure": s.c.exposureUs,
	}
}

func (s systemControl) ForceReset() error {
	s.c.resetCount++
	return nil
}

func (s systemControl) SetTrigger(cfg camera.TriggerConfig) error {
	if cfg.Mode == camera.TriggerOff {
		return nil
	}
	return camera.ErrUnsupported
}
