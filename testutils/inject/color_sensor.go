package inject

import (
	"context"

	"github.com/mazebot/sensorctl/components/colorsensor"
)

// ColorSensor is an injected color sensor.
type ColorSensor struct {
	colorsensor.ColorSensor
	IsSampleReadyFunc func(ctx context.Context) (bool, error)
	ReadSampleFunc    func(ctx context.Context) (colorsensor.Sample, error)
}

// IsSampleReady calls the injected IsSampleReady or the real version.
func (s *ColorSensor) IsSampleReady(ctx context.Context) (bool, error) {
	if s.IsSampleReadyFunc == nil {
		return s.ColorSensor.IsSampleReady(ctx)
	}
	return s.IsSampleReadyFunc(ctx)
}

// ReadSample calls the injected ReadSample or the real version.
func (s *ColorSensor) ReadSample(ctx context.Context) (colorsensor.Sample, error) {
	if s.ReadSampleFunc == nil {
		return s.ColorSensor.ReadSample(ctx)
	}
	return s.ReadSampleFunc(ctx)
}
