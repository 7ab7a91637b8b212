/*
 * constraint.go, part of goequil.
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
 *
 * Goequil is developed at the laboratory for instruction in Swedish, Department of Chemistry,
 * University of Helsinki, Finland.
 *
 */

package equil

import (
	"fmt"
	"math"
)

//ConstraintTerm is one entry in a conservation relation: a species and its
//signed coefficient.
type ConstraintTerm struct {
	Species *Species
	Coeff   float64
}

//Constraint represents a linear conservation relation over concentrations:
//sum(coeff_i*c_i) = rhs. Mass balances (total analytical concentration of
//an acid and its conjugate base) and charge balances (rhs 0) are both of
//this form. Unlike the structural data of a reaction, the right-hand side
//is mutable, so one constraint can be reused across a titration sweep where
//only the total changes between solves.
type Constraint struct {
	species []*Species
	coeffs  []float64
	rhs     float64
}

// NewConstraint builds a conservation relation from the given terms and
// right-hand side. It returns a DomainError on an empty term list, a nil or
// repeated species, or a non-finite coefficient or rhs. Coefficients may
// carry either sign (a charge balance needs both).
func NewConstraint(terms []ConstraintTerm, rhs float64) (*Constraint, error) {
	if len(terms) == 0 {
		return nil, DomainError{message: "constraint needs at least one term", deco: []string{"NewConstraint"}}
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return nil, DomainError{message: fmt.Sprintf("constraint right-hand side must be finite, got %g", rhs), deco: []string{"NewConstraint"}}
	}
	C := new(Constraint)
	C.rhs = rhs
	C.species = make([]*Species, 0, len(terms))
	C.coeffs = make([]float64, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if t.Species == nil {
			return nil, DomainError{message: "nil species in constraint term", deco: []string{"NewConstraint"}}
		}
		if t.Coeff == 0 || math.IsNaN(t.Coeff) || math.IsInf(t.Coeff, 0) {
			return nil, DomainError{message: fmt.Sprintf("constraint coefficient for %s must be non-zero and finite, got %g", t.Species.Name, t.Coeff), deco: []string{"NewConstraint"}}
		}
		if seen[t.Species.Name] {
			return nil, DomainError{message: fmt.Sprintf("species %s appears twice in the constraint", t.Species.Name), deco: []string{"NewConstraint"}}
		}
		seen[t.Species.Name] = true
		C.species = append(C.species, t.Species)
		C.coeffs = append(C.coeffs, t.Coeff)
	}
	return C, nil
}

// RHS returns the current right-hand side of the constraint.
func (C *Constraint) RHS() float64 {
	return C.rhs
}

// SetRHS updates the right-hand side, typically between the steps of a
// titration sweep. It returns a DomainError if the value is not finite.
func (C *Constraint) SetRHS(rhs float64) error {
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return DomainError{message: fmt.Sprintf("constraint right-hand side must be finite, got %g", rhs), deco: []string{"SetRHS"}}
	}
	C.rhs = rhs
	return nil
}

// Species returns the species referenced by the constraint. The slice is
// owned by the constraint and must not be modified.
func (C *Constraint) Species() []*Species {
	return C.species
}

// Residual returns sum(coeff_i*c_i)-rhs for the referenced species, in
// Species() order. Conservation rows live in linear concentration space;
// the x values are unused.
func (C *Constraint) Residual(c, x []float64) float64 {
	r := -C.rhs
	for i, v := range C.coeffs {
		r += v * c[i]
	}
	return r
}

// Deriv returns the derivative of the residual with respect to the
// log-concentration of the ith referenced species. Since the row is linear
// in c but the unknowns are x=ln(c), the chain rule gives coeff_i*c_i.
func (C *Constraint) Deriv(c, x []float64, i int) float64 {
	return C.coeffs[i] * c[i]
}
