// Package wallscan reads the robot's distance sensors by walking a fixed neighbor graph of sensor
// nodes depth first from a root node, reading each reachable node exactly once per scan.
package wallscan

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mazebot/sensorctl/components/sensor"
	"github.com/mazebot/sensorctl/logging"
)

// A Reading is the distance one node reported during a scan. CM is 0 when no echo came back.
type Reading struct {
	Node int     `json:"node"`
	CM   float64 `json:"cm"`
}

// A Scanner performs wall scans over a fixed graph.
type Scanner struct {
	graph   *Graph
	root    int
	sensors []sensor.DistanceSensor
	logger  logging.Logger
}

// NewScanner returns a scanner that starts every scan at root. sensors is indexed by node id.
func NewScanner(graph *Graph, root int, sensors []sensor.DistanceSensor, logger logging.Logger) (*Scanner, error) {
	if len(sensors) != graph.Len() {
		return nil, errors.Errorf("wall scan graph has %d nodes but %d sensors were given", graph.Len(), len(sensors))
	}
	if err := graph.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid wall scan graph")
	}
	if root < 0 || root >= graph.Len() {
		logger.Warnw("wall scan root is not a node; scans will read nothing", "root", root, "nodes", graph.Len())
	}
	return &Scanner{graph: graph, root: root, sensors: sensors, logger: logger}, nil
}

// Scan reads every node reachable from the root once, in depth-first preorder. A node whose
// sensor fails is reported as 0 so the scan always completes.
func (s *Scanner) Scan(ctx context.Context) []Reading {
	readings := make([]Reading, 0, s.graph.Len())
	s.graph.walk(s.root, func(node int) {
		cm, err := s.sensors[node].Distance(ctx)
		if err != nil {
			s.logger.Warnw("distance read failed", "node", node, "error", err)
			cm = 0
		}
		s.logger.Infow("distance", "node", node, "cm", cm)
		readings = append(readings, Reading{Node: node, CM: cm})
	})
	s.logger.Infow("wall scan complete", "nodes", len(readings))
	return readings
}
