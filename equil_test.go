/*
 * equil_test.go, part of goequil.
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package equil

import (
	"fmt"
	"math"
	"testing"
)

//builds the acetic acid system of the package examples:
//HA <=> H+ + A-  (Ka 1.8e-5), H2O <=> H+ + OH- (Kw 1e-14),
//total acetate 0.1 M, electroneutrality.
func aceticSystem(Te *testing.T, total float64) *System {
	hydron := NewSpecies("H+", 1)
	acetate := NewSpeciesComp("A-", -1, map[string]int{"Ac": 1})
	acid := NewSpeciesComp("HA", 0, map[string]int{"Ac": 1})
	hydroxide := NewSpecies("OH-", -1)
	ka, err := NewReaction([]ReactionTerm{{acid, 1, Reactant}, {hydron, 1, Product}, {acetate, 1, Product}}, 1.8e-5)
	if err != nil {
		Te.Fatal(err)
	}
	kw, err := NewReaction([]ReactionTerm{{hydron, 1, Product}, {hydroxide, 1, Product}}, 1.0e-14)
	if err != nil {
		Te.Fatal(err)
	}
	sys := NewSystem()
	for _, sp := range []*Species{hydron, acetate, acid, hydroxide} {
		if err := sys.AddSpecies(sp); err != nil {
			Te.Fatal(err)
		}
	}
	mass, err := sys.MassBalance("Ac", total)
	if err != nil {
		Te.Fatal(err)
	}
	charge, err := sys.ChargeBalance()
	if err != nil {
		Te.Fatal(err)
	}
	if err := sys.AddReaction(ka); err != nil {
		Te.Fatal(err)
	}
	if err := sys.AddReaction(kw); err != nil {
		Te.Fatal(err)
	}
	if err := sys.AddConstraint(mass); err != nil {
		Te.Fatal(err)
	}
	if err := sys.AddConstraint(charge); err != nil {
		Te.Fatal(err)
	}
	if err := sys.Validate(); err != nil {
		Te.Fatal(err)
	}
	return sys
}

//The classic general chemistry exercise: the pH of 0.1 M acetic acid.
//Validated against https://www.aqion.onl/
func TestAceticAcidPH(Te *testing.T) {
	sys := aceticSystem(Te, 0.1)
	res, err := Solve(sys, nil)
	if err != nil {
		Te.Fatal(err)
	}
	h := res.Concentrations["H+"]
	ph := PH(h)
	fmt.Printf("[H+]=%.5g pH=%.3f in %d iterations\n", h, ph, res.Iterations)
	if math.Abs(h-1.333e-3)/1.333e-3 > 0.01 {
		Te.Errorf("[H+]=%g, expected about 1.333e-3", h)
	}
	if math.Abs(ph-2.875) > 0.01 {
		Te.Errorf("pH=%g, expected about 2.88", ph)
	}
	for name, c := range res.Concentrations {
		if c < 0 || math.IsNaN(c) {
			Te.Errorf("invalid concentration %g for %s", c, name)
		}
	}
	//mass balance must hold at the solution
	if tot := res.Concentrations["HA"] + res.Concentrations["A-"]; math.Abs(tot-0.1) > 1e-8 {
		Te.Errorf("mass balance violated: HA+A- = %g, expected 0.1", tot)
	}
	if res.ResidualNorm >= 1e-10 {
		Te.Errorf("residual norm %g not below tolerance", res.ResidualNorm)
	}
	//the solution is also written back into the species
	if sys.Species("H+").Concentration() != h {
		Te.Error("solution not written back into the species")
	}
}

//Feeding a solution back as the initial guess must converge immediately.
func TestIdempotentResolve(Te *testing.T) {
	sys := aceticSystem(Te, 0.1)
	res, err := Solve(sys, nil)
	if err != nil {
		Te.Fatal(err)
	}
	opts := DefaultOptions()
	opts.InitialGuess = res.Concentrations
	res2, err := Solve(sys, opts)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("re-solve took", res2.Iterations, "iterations")
	if res2.Iterations > 2 {
		Te.Errorf("re-solving from the solution took %d iterations", res2.Iterations)
	}
}

//The mass balance must hold to the same relative accuracy however dilute
//the total: the convergence test is per-row relative, never absolute.
func TestMassBalanceSweepOfTotals(Te *testing.T) {
	for _, total := range []float64{1e-6, 1e-5, 1e-4, 1e-2, 0.1, 1.0} {
		sys := aceticSystem(Te, total)
		res, err := Solve(sys, nil)
		if err != nil {
			Te.Fatalf("total %g: %v", total, err)
		}
		if tot := res.Concentrations["HA"] + res.Concentrations["A-"]; math.Abs(tot-total)/total > 1e-8 {
			Te.Errorf("total %g: mass balance gives %g (relative error %g)", total, tot, math.Abs(tot-total)/total)
		}
	}
}

func TestDuplicateName(Te *testing.T) {
	sys := NewSystem()
	if err := sys.AddSpecies(NewSpecies("H+", 1)); err != nil {
		Te.Fatal(err)
	}
	err := sys.AddSpecies(NewSpecies("H+", 1))
	if err == nil {
		Te.Fatal("duplicate species accepted")
	}
	if _, ok := err.(DuplicateNameError); !ok {
		Te.Errorf("expected DuplicateNameError, got %T: %v", err, err)
	}
}

func TestUnknownSpecies(Te *testing.T) {
	a := NewSpecies("A", 0)
	b := NewSpecies("B", 0)
	r, err := NewReaction([]ReactionTerm{{a, 1, Reactant}, {b, 1, Product}}, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	sys := NewSystem()
	if err := sys.AddSpecies(a); err != nil {
		Te.Fatal(err)
	}
	err = sys.AddReaction(r) //B was never registered
	if err == nil {
		Te.Fatal("reaction with unregistered species accepted")
	}
	if _, ok := err.(UnknownSpeciesError); !ok {
		Te.Errorf("expected UnknownSpeciesError, got %T: %v", err, err)
	}
}

//5 species with only 4 equations must be rejected at construction,
//never reaching the solver.
func TestIllPosed(Te *testing.T) {
	sps := make([]*Species, 5)
	for i := range sps {
		sps[i] = NewSpecies(fmt.Sprintf("S%d", i), 0)
	}
	var reactions []*Reaction
	for i := 0; i < 3; i++ {
		r, err := NewReaction([]ReactionTerm{{sps[i], 1, Reactant}, {sps[i+1], 1, Product}}, 1.0)
		if err != nil {
			Te.Fatal(err)
		}
		reactions = append(reactions, r)
	}
	con, err := NewConstraint([]ConstraintTerm{{sps[0], 1}, {sps[1], 1}, {sps[2], 1}, {sps[3], 1}, {sps[4], 1}}, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	_, err = BuildSystem(sps, reactions, []*Constraint{con})
	if err == nil {
		Te.Fatal("ill-posed system accepted")
	}
	if _, ok := err.(IllPosedError); !ok {
		Te.Errorf("expected IllPosedError, got %T: %v", err, err)
	}
}

func TestBadConstants(Te *testing.T) {
	a := NewSpecies("A", 0)
	b := NewSpecies("B", 0)
	if _, err := NewReaction([]ReactionTerm{{a, 1, Reactant}, {b, 1, Product}}, -1.8e-5); err == nil {
		Te.Error("negative equilibrium constant accepted")
	} else if _, ok := err.(DomainError); !ok {
		Te.Errorf("expected DomainError, got %T", err)
	}
	if _, err := NewReaction([]ReactionTerm{{a, -1, Reactant}, {b, 1, Product}}, 1.0); err == nil {
		Te.Error("negative coefficient accepted (sign must come from the role)")
	}
	if _, err := NewConstraint(nil, 0.1); err == nil {
		Te.Error("empty constraint accepted")
	}
	if _, err := NewConstraint([]ConstraintTerm{{a, 0}, {b, 1}}, 0.1); err == nil {
		Te.Error("zero constraint coefficient accepted")
	}
	if err := a.SetConcentration(-0.1); err == nil {
		Te.Error("negative concentration accepted")
	} else if _, ok := err.(DomainError); !ok {
		Te.Errorf("expected DomainError, got %T", err)
	}
}

func TestReactionString(Te *testing.T) {
	acid := NewSpecies("HA", 0)
	hydron := NewSpecies("H+", 1)
	acetate := NewSpecies("A-", -1)
	r, err := NewReaction([]ReactionTerm{{acid, 1, Reactant}, {hydron, 1, Product}, {acetate, 1, Product}}, 1.8e-5)
	if err != nil {
		Te.Fatal(err)
	}
	if s := r.String(); s != "HA <=> H+ + A-" {
		Te.Errorf("got %q", s)
	}
	r2, err := NewReaction([]ReactionTerm{{acid, 2, Reactant}, {hydron, 1, Product}}, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	if s := r2.String(); s != "2HA <=> H+" {
		Te.Errorf("got %q", s)
	}
}

//A clone must solve independently, leaving the original untouched.
func TestClone(Te *testing.T) {
	sys := aceticSystem(Te, 0.1)
	clone := sys.Clone()
	if _, err := Solve(clone, nil); err != nil {
		Te.Fatal(err)
	}
	if c := sys.Species("H+").Concentration(); c != 0 {
		Te.Errorf("solving a clone changed the original ([H+]=%g)", c)
	}
	if c := clone.Species("H+").Concentration(); c <= 0 {
		Te.Errorf("clone not solved ([H+]=%g)", c)
	}
	//the cloned constraints are distinct objects
	if err := clone.Constraints()[0].SetRHS(0.2); err != nil {
		Te.Fatal(err)
	}
	if sys.Constraints()[0].RHS() == 0.2 {
		Te.Error("setting the rhs on a cloned constraint changed the original")
	}
}
