// Package export writes stored runs in formats other tools can open.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/shade"
)

var ErrNoTrajectory = errors.New("export: trajectory needs at least one frame")

// bounds is the XY extent of every center in a trajectory.
type bounds struct {
	minX, maxX, minY, maxY float32
}

func extent(centers [][]mgl32.Vec3) bounds {
	b := bounds{minX: centers[0][0][0], maxX: centers[0][0][0], minY: centers[0][0][1], maxY: centers[0][0][1]}
	for _, row := range centers {
		for _, c := range row {
			b.minX, b.maxX = min(b.minX, c[0]), max(b.maxX, c[0])
			b.minY, b.maxY = min(b.minY, c[1]), max(b.maxY, c[1])
		}
	}

	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(c mgl32.Vec3, width, height int) (float32, float32) {
	x := (c[0] - b.minX) / (b.maxX - b.minX) * float32(width)
	y := float32(height) - (c[1]-b.minY)/(b.maxY-b.minY)*float32(height)
	return x, y
}

// TrajectoriesSVG draws every primitive's path projected onto the XY plane
// (the view plane of the default camera). Each path is stroked with the
// surface color at its first position and ends in a dot.
func TrajectoriesSVG(w io.Writer, centers [][]mgl32.Vec3, width, height int) error {
	if len(centers) == 0 || len(centers[0]) == 0 {
		return ErrNoTrajectory
	}
	b := extent(centers)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for slot := range centers[0] {
		c := shade.Flat(shade.BaseColor(centers[0][slot])).NRGBA()
		stroke := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
		var lastX, lastY float32
		for i, row := range centers {
			if slot >= len(row) {
				break
			}
			lastX, lastY = b.project(row[slot], width, height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", lastX, lastY))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", lastX, lastY))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, lastX, lastY, stroke))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
