// Package colorsensor defines the interface to an RGBC color sensor reached through a bus
// multiplexer channel.
package colorsensor

import (
	"context"

	"github.com/lucasb-eyer/go-colorful"
)

// A Sample is one raw RGBC acquisition. Values are raw ADC counts.
type Sample struct {
	Red   uint16
	Green uint16
	Blue  uint16
	Clear uint16
}

// Color returns the sample's chromaticity, each channel normalized by the clear channel. A sample
// with no clear light is black.
func (s Sample) Color() colorful.Color {
	if s.Clear == 0 {
		return colorful.Color{}
	}
	c := float64(s.Clear)
	return colorful.Color{
		R: float64(s.Red) / c,
		G: float64(s.Green) / c,
		B: float64(s.Blue) / c,
	}.Clamped()
}

// A ColorSensor produces raw RGBC samples. The multiplexer channel the sensor sits on must be
// selected before either method is called.
type ColorSensor interface {
	// IsSampleReady reports whether a completed acquisition is waiting to be read.
	IsSampleReady(ctx context.Context) (bool, error)

	// ReadSample returns the most recent acquisition.
	ReadSample(ctx context.Context) (Sample, error)
}
