package colorsensor

import (
	"testing"

	"go.viam.com/test"
)

func TestSampleColor(t *testing.T) {
	test.That(t, Sample{Red: 10, Green: 10, Blue: 10}.Color(), test.ShouldResemble, Sample{}.Color())
	test.That(t, Sample{}.Color().Hex(), test.ShouldEqual, "#000000")

	c := Sample{Red: 400, Green: 0, Blue: 0, Clear: 400}.Color()
	test.That(t, c.Hex(), test.ShouldEqual, "#ff0000")

	// Channels brighter than the clear reading saturate.
	c = Sample{Red: 800, Green: 200, Blue: 0, Clear: 400}.Color()
	test.That(t, c.R, test.ShouldEqual, 1.0)
	test.That(t, c.G, test.ShouldAlmostEqual, 0.5)
}
