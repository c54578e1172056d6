// Package export writes fire perimeters to ESRI shapefiles for use in GIS
// tooling.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	shp "github.com/jonas-p/go-shp"

	"github.com/firesim/firesim-backend-go/internal/spread"
)

// WritePerimeters writes one polygon record per frame to a shapefile at
// basePath (without extension), with TIME_H and AREA_HA attributes.
// Degenerate frames are skipped.
func WritePerimeters(basePath string, frames []spread.Frame) error {
	w, err := shp.Create(basePath+".shp", shp.POLYGON)
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %w", err)
	}
	defer w.Close()

	fields := []shp.Field{
		shp.FloatField("TIME_H", 16, 4),
		shp.FloatField("AREA_HA", 16, 4),
	}
	if err := w.SetFields(fields); err != nil {
		return fmt.Errorf("failed to set shapefile fields: %w", err)
	}

	row := 0
	for _, f := range frames {
		if len(f.Perimeter) < 4 {
			continue
		}
		poly := perimeterToPolygon(f.Perimeter)
		w.Write(poly)
		w.WriteAttribute(row, 0, f.TimeHours)
		w.WriteAttribute(row, 1, f.AreaHa)
		row++
	}
	return nil
}

// perimeterToPolygon converts a closed [lat,lng] ring to a shapefile
// polygon. Shapefile outer rings are clockwise and points are (x=lng,
// y=lat), so the CCW simulation ring is reversed.
func perimeterToPolygon(ring [][2]float64) *shp.Polygon {
	n := len(ring)
	points := make([]shp.Point, n)
	for i, p := range ring {
		points[n-1-i] = shp.Point{X: p[1], Y: p[0]}
	}

	box := shp.Box{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, pt := range points[1:] {
		if pt.X < box.MinX {
			box.MinX = pt.X
		}
		if pt.Y < box.MinY {
			box.MinY = pt.Y
		}
		if pt.X > box.MaxX {
			box.MaxX = pt.X
		}
		if pt.Y > box.MaxY {
			box.MaxY = pt.Y
		}
	}

	return &shp.Polygon{
		Box:       box,
		NumParts:  1,
		NumPoints: int32(len(points)),
		Parts:     []int32{0},
		Points:    points,
	}
}

// WritePerimetersZip writes the shapefile parts to a temp directory and
// streams them as a zip archive.
func WritePerimetersZip(out io.Writer, name string, frames []spread.Frame) error {
	dir, err := os.MkdirTemp("", "firesim-export")
	if err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, name)
	if err := WritePerimeters(base, frames); err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		path := base + ext
		f, err := os.Open(path)
		if err != nil {
			// go-shp always writes all three parts; a missing one is a bug.
			return fmt.Errorf("missing shapefile part %s: %w", ext, err)
		}
		entry, err := zw.Create(name + ext)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to add zip entry: %w", err)
		}
		if _, err := io.Copy(entry, f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write zip entry: %w", err)
		}
		f.Close()
	}
	return zw.Close()
}
