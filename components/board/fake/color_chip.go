package fake

import (
	"sync"

	"github.com/mazebot/sensorctl/components/colorsensor"
	"github.com/mazebot/sensorctl/components/colorsensor/apds9960"
)

// A ColorChip simulates the color engine of an APDS-9960. Data is only valid once the chip has
// been powered and its color engine enabled.
type ColorChip struct {
	mu    sync.Mutex
	regs  [256]byte
	ready bool
}

// NewColorChip returns a chip that will report sample, with its status bit reflecting ready.
func NewColorChip(sample colorsensor.Sample, ready bool) *ColorChip {
	c := &ColorChip{ready: ready}
	c.regs[apds9960.RegID] = apds9960.DeviceID
	c.SetSample(sample)
	return c
}

// SetSample changes the sample the chip reports.
func (c *ColorChip) SetSample(sample colorsensor.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.regs[apds9960.RegCDataL:], apds9960.EncodeSample(sample))
}

// SetReady changes whether a sample is reported as waiting.
func (c *ColorChip) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// ReadRegister implements RegisterDevice.
func (c *ColorChip) ReadRegister(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reg == apds9960.RegStatus {
		enabled := c.regs[apds9960.RegEnable]&(apds9960.EnablePON|apds9960.EnableAEN) == apds9960.EnablePON|apds9960.EnableAEN
		if enabled && c.ready {
			return apds9960.StatusAValid
		}
		return 0
	}
	return c.regs[reg]
}

// WriteRegister implements RegisterDevice. Identification, status and data registers are read only.
func (c *ColorChip) WriteRegister(reg, val byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reg == apds9960.RegID || reg == apds9960.RegStatus || (reg >= apds9960.RegCDataL && reg < apds9960.RegCDataL+8) {
		return
	}
	c.regs[reg] = val
}
