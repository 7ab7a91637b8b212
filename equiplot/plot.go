/*
 * plot.go, part of goequil
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

//Package equiplot renders titration curves and other concentration series
//from goequil to PNG files, with gonum/plot.
package equiplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// TitrationPlot draws ys (normally pH values) against xs (normally the
// titrant totals of a sweep) as a line plot, and saves it as a PNG with the
// given filename (".png" is appended if missing). xs and ys must be non-nil
// and of the same length.
func TitrationPlot(xs, ys []float64, title, xlabel, filename string) error {
	if xs == nil || ys == nil {
		return fmt.Errorf("goequil/equiplot: given nil data")
	}
	if len(xs) != len(ys) {
		return fmt.Errorf("goequil/equiplot: %d x values but %d y values", len(xs), len(ys))
	}
	p := basicPlot(title, xlabel, "pH")
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)
	if len(filename) < 4 || filename[len(filename)-4:] != ".png" {
		filename = filename + ".png"
	}
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}

// ConcentrationPlot draws one or more concentration series against xs,
// one line per series, colored automatically and labeled in the legend with
// the map keys. Saves a PNG as in TitrationPlot.
func ConcentrationPlot(xs []float64, series map[string][]float64, title, xlabel, filename string) error {
	if xs == nil || len(series) == 0 {
		return fmt.Errorf("goequil/equiplot: given nil data")
	}
	p := basicPlot(title, xlabel, "concentration [M]")
	i := 0
	for name, ys := range series {
		if len(ys) != len(xs) {
			return fmt.Errorf("goequil/equiplot: series %s has %d values but there are %d x values", name, len(ys), len(xs))
		}
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X = xs[j]
			pts[j].Y = ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(i, len(series))
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(line)
		p.Legend.Add(name, line)
		i++
	}
	if len(filename) < 4 || filename[len(filename)-4:] != ".png" {
		filename = filename + ".png"
	}
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}
