/*
 * titrate_test.go, part of goequil.
 *
 * Copyright 2023 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

package titrate

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/rmera/goequil"
)

//titration of 0.05 M HCl with NaOH: 6 species, 3 reactions (acid, base and
//water dissociation), Cl and Na mass balances plus electroneutrality.
//Returns the system and the Na mass balance, which is what the sweep moves.
func hclNaOH(Te *testing.T, ca float64) (*equil.System, *equil.Constraint) {
	acid := equil.NewSpeciesComp("HCl", 0, map[string]int{"Cl": 1})
	hydron := equil.NewSpecies("H+", 1)
	chloride := equil.NewSpeciesComp("Cl-", -1, map[string]int{"Cl": 1})
	base := equil.NewSpeciesComp("NaOH", 0, map[string]int{"Na": 1})
	sodium := equil.NewSpeciesComp("Na+", 1, map[string]int{"Na": 1})
	hydroxide := equil.NewSpecies("OH-", -1)
	kacid, err := equil.NewReaction([]equil.ReactionTerm{{Species: acid, Coeff: 1, Role: equil.Reactant}, {Species: hydron, Coeff: 1, Role: equil.Product}, {Species: chloride, Coeff: 1, Role: equil.Product}}, 1e6)
	if err != nil {
		Te.Fatal(err)
	}
	kbase, err := equil.NewReaction([]equil.ReactionTerm{{Species: base, Coeff: 1, Role: equil.Reactant}, {Species: sodium, Coeff: 1, Role: equil.Product}, {Species: hydroxide, Coeff: 1, Role: equil.Product}}, 10)
	if err != nil {
		Te.Fatal(err)
	}
	kw, err := equil.NewReaction([]equil.ReactionTerm{{Species: hydron, Coeff: 1, Role: equil.Product}, {Species: hydroxide, Coeff: 1, Role: equil.Product}}, 1.0e-14)
	if err != nil {
		Te.Fatal(err)
	}
	sys := equil.NewSystem()
	for _, sp := range []*equil.Species{acid, hydron, chloride, base, sodium, hydroxide} {
		if err := sys.AddSpecies(sp); err != nil {
			Te.Fatal(err)
		}
	}
	cl, err := sys.MassBalance("Cl", ca)
	if err != nil {
		Te.Fatal(err)
	}
	na, err := sys.MassBalance("Na", 0)
	if err != nil {
		Te.Fatal(err)
	}
	charge, err := sys.ChargeBalance()
	if err != nil {
		Te.Fatal(err)
	}
	for _, r := range []*equil.Reaction{kacid, kbase, kw} {
		if err := sys.AddReaction(r); err != nil {
			Te.Fatal(err)
		}
	}
	for _, c := range []*equil.Constraint{cl, na, charge} {
		if err := sys.AddConstraint(c); err != nil {
			Te.Fatal(err)
		}
	}
	if err := sys.Validate(); err != nil {
		Te.Fatal(err)
	}
	return sys, na
}

//Adding base must raise the pH monotonically, with the steep jump (the
//equivalence point) where the base total crosses the acid total.
func TestHClNaOHSweep(Te *testing.T) {
	const ca = 0.05
	sys, na := hclNaOH(Te, ca)
	steps := make([]float64, 41)
	for i := range steps {
		steps[i] = 0.01 + float64(i)*0.002 //0.01 to 0.09 M, crossing ca at step 20
	}
	curve, err := Sweep(sys, na, steps, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if curve.Len() != len(steps) {
		Te.Fatalf("%d steps solved, expected %d", curve.Len(), len(steps))
	}
	ph, err := curve.PH("H+")
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Printf("pH from %.3f to %.3f\n", ph[0], ph[len(ph)-1])
	if math.Abs(ph[0]-equil.PH(ca-steps[0])) > 0.1 {
		Te.Errorf("pH %g at the first step, expected about %g", ph[0], equil.PH(ca-steps[0]))
	}
	for i := 1; i < len(ph); i++ {
		if ph[i] < ph[i-1]-1e-6 {
			Te.Errorf("pH decreased from %g to %g while adding base (step %d)", ph[i-1], ph[i], i)
		}
	}
	ep, err := curve.EquivalencePoint("H+")
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("equivalence point at step", ep, "rhs", curve.RHS()[ep])
	if ep < 18 || ep > 22 {
		Te.Errorf("equivalence point at step %d (rhs %g), expected near step 20 (rhs 0.05)", ep, curve.RHS()[ep])
	}
	if eph := ph[20]; math.Abs(eph-7) > 0.5 {
		Te.Errorf("pH %g at the stoichiometric point, expected about 7", eph)
	}
}

func TestSweepArchive(Te *testing.T) {
	sys, na := hclNaOH(Te, 0.05)
	steps := []float64{0.02, 0.04, 0.06, 0.08}
	curve, err := Sweep(sys, na, steps, nil)
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "hcl_naoh.sweep")
	if err := WriteCurve(name, curve); err != nil {
		Te.Fatal(err)
	}
	r, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	names := r.Names()
	if len(names) != len(curve.Names()) {
		Te.Fatalf("%d species in the archive, expected %d", len(names), len(curve.Names()))
	}
	back, err := r.ReadCurve()
	if err != nil {
		Te.Fatal(err)
	}
	if back.Len() != curve.Len() {
		Te.Fatalf("%d steps read back, expected %d", back.Len(), curve.Len())
	}
	for _, n := range names {
		a, err := curve.Concentration(n)
		if err != nil {
			Te.Fatal(err)
		}
		b, err := back.Concentration(n)
		if err != nil {
			Te.Fatal(err)
		}
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-9*math.Abs(a[i]) {
				Te.Errorf("%s step %d: wrote %g, read %g", n, i, a[i], b[i])
			}
		}
	}
}

func TestArchiveEOF(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "tiny.sweep")
	w, err := NewWriter(name, []string{"A", "B"})
	if err != nil {
		Te.Fatal(err)
	}
	if err := w.WNext(0.1, []float64{1e-3, 2e-3}); err != nil {
		Te.Fatal(err)
	}
	w.Close()
	if err := w.WNext(0.2, []float64{1e-3, 2e-3}); err == nil {
		Te.Error("write after Close accepted")
	}
	r, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if _, _, err := r.Next(); err != nil {
		Te.Fatal(err)
	}
	_, _, err = r.Next()
	if err == nil {
		Te.Fatal("read past the end of the archive")
	}
	if !IsLastStep(err) {
		Te.Errorf("end of archive reported as a real error: %v", err)
	}
}

func TestSweepValidation(Te *testing.T) {
	sys, na := hclNaOH(Te, 0.05)
	other, err := equil.NewConstraint([]equil.ConstraintTerm{{Species: sys.Species("H+"), Coeff: 1}}, 0.1)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := Sweep(sys, other, []float64{0.01}, nil); err == nil {
		Te.Error("sweep over a constraint foreign to the system accepted")
	}
	if _, err := Sweep(sys, na, nil, nil); err == nil {
		Te.Error("sweep with no steps accepted")
	}
	if _, err := Sweep(nil, na, []float64{0.01}, nil); err == nil {
		Te.Error("sweep over a nil system accepted")
	}
}
