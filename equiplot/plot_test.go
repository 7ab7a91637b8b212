package equiplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sigmoid(n int) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) / float64(n-1)
		ys[i] = 7 + 5*math.Tanh(20*(xs[i]-0.5)) //a titration-curve shape
	}
	return xs, ys
}

func TestTitrationPlot(Te *testing.T) {
	xs, ys := sigmoid(50)
	name := filepath.Join(Te.TempDir(), "titration") //extension gets appended
	if err := TitrationPlot(xs, ys, "HCl + NaOH", "NaOH added [M]", name); err != nil {
		Te.Fatal(err)
	}
	fi, err := os.Stat(name + ".png")
	if err != nil {
		Te.Fatal(err)
	}
	if fi.Size() == 0 {
		Te.Error("empty plot file")
	}
	if err := TitrationPlot(nil, ys, "t", "x", name); err == nil {
		Te.Error("nil data accepted")
	}
	if err := TitrationPlot(xs, ys[1:], "t", "x", name); err == nil {
		Te.Error("mismatched data accepted")
	}
}

func TestConcentrationPlot(Te *testing.T) {
	xs, ys := sigmoid(50)
	inv := make([]float64, len(ys))
	for i, v := range ys {
		inv[i] = 14 - v
	}
	name := filepath.Join(Te.TempDir(), "species.png")
	err := ConcentrationPlot(xs, map[string][]float64{"OH-": ys, "H+": inv}, "speciation", "NaOH added [M]", name)
	if err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("bad plot file: %v", err)
	}
}
