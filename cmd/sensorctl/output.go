package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mazebot/sensorctl/colorclass"
	"github.com/mazebot/sensorctl/components/colorsensor"
	"github.com/mazebot/sensorctl/services/scancycle"
)

var (
	floorPalette = map[colorclass.FloorColor]*color.Color{
		colorclass.FloorBlack:  color.New(color.FgHiBlack),
		colorclass.FloorRed:    color.New(color.FgRed),
		colorclass.FloorGreen:  color.New(color.FgGreen),
		colorclass.FloorYellow: color.New(color.FgYellow),
		colorclass.FloorBlue:   color.New(color.FgBlue),
	}
	treasurePalette = map[colorclass.TreasureColor]*color.Color{
		colorclass.TreasureCyan:  color.New(color.FgCyan),
		colorclass.TreasureGreen: color.New(color.FgGreen),
		colorclass.TreasureBlack: color.New(color.FgHiBlack),
	}
	sentinel = color.New(color.Faint)
)

func paint(c *color.Color, ok bool, s string) string {
	if !ok {
		c = sentinel
	}
	return c.Sprint(s)
}

func sampleCell(s colorsensor.Sample) string {
	return fmt.Sprintf("%d/%d/%d/%d %s", s.Red, s.Green, s.Blue, s.Clear, s.Color().Hex())
}

// renderReport prints a cycle's report as a table, one row per sensor read.
func renderReport(report scancycle.Report) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("cycle %d", report.Cycle))
	t.AppendHeader(table.Row{"Phase", "Sensor", "Channel", "R/G/B/C", "Result"})
	for _, f := range report.Floor {
		c, ok := floorPalette[f.Color]
		t.AppendRow(table.Row{"floor", f.Index, f.Channel, sampleCell(f.Sample), paint(c, ok, f.Color.String())})
	}
	for _, tr := range report.Treasure {
		c, ok := treasurePalette[tr.Color]
		t.AppendRow(table.Row{"treasure", tr.Index, tr.Channel, sampleCell(tr.Sample), paint(c, ok, tr.Color.String())})
	}
	t.AppendSeparator()
	for _, w := range report.Wall {
		cell := fmt.Sprintf("%.1f cm", w.CM)
		if w.CM == 0 {
			cell = sentinel.Sprint("no echo")
		}
		t.AppendRow(table.Row{"wall", w.Node, "", "", cell})
	}
	return t.Render()
}

func writeReportJSON(w io.Writer, report scancycle.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
