/*
 * reaction.go, part of goequil.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package equil

import (
	"fmt"
	"math"
	"strings"
)

//Role marks a species in a reaction as reactant or product.
type Role int

const (
	Reactant Role = iota
	Product
)

//ReactionTerm is one entry in a reaction: a species, its (positive)
//stoichiometric coefficient and its role. The sign convention (products
//positive, reactants negative) is applied internally on construction.
type ReactionTerm struct {
	Species *Species
	Coeff   float64
	Role    Role
}

//Reaction represents a chemical equilibrium under the mass-action law:
//the product of product concentrations over the product of reactant
//concentrations, each raised to its stoichiometric coefficient, equals K.
//Internally the relation is kept in natural-log space,
//sum(coeff_i*ln(c_i)) = ln(K), which is linear in the log-concentrations
//and immune to overflow for extreme constants.
type Reaction struct {
	species []*Species
	coeffs  []float64 //sign-sensitive: products positive, reactants negative
	k       float64
	lnk     float64
}

// NewReaction builds a reaction from the given terms and equilibrium
// constant. It returns a DomainError if k is not a positive finite number,
// if any coefficient is not positive, or if a species is nil or appears
// twice. A reaction with products only (say, water autoionization written
// as H2O <=> H+ + OH- with the water activity folded into K) is fine.
func NewReaction(terms []ReactionTerm, k float64) (*Reaction, error) {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, DomainError{message: fmt.Sprintf("equilibrium constant must be positive and finite, got %g", k), deco: []string{"NewReaction"}}
	}
	if len(terms) == 0 {
		return nil, DomainError{message: "reaction needs at least one term", deco: []string{"NewReaction"}}
	}
	R := new(Reaction)
	R.k = k
	R.lnk = math.Log(k)
	R.species = make([]*Species, 0, len(terms))
	R.coeffs = make([]float64, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if t.Species == nil {
			return nil, DomainError{message: "nil species in reaction term", deco: []string{"NewReaction"}}
		}
		if t.Coeff <= 0 || math.IsNaN(t.Coeff) || math.IsInf(t.Coeff, 0) {
			return nil, DomainError{message: fmt.Sprintf("stoichiometric coefficient for %s must be positive, got %g (the sign comes from the role)", t.Species.Name, t.Coeff), deco: []string{"NewReaction"}}
		}
		if t.Role != Reactant && t.Role != Product {
			return nil, DomainError{message: fmt.Sprintf("invalid role for %s", t.Species.Name), deco: []string{"NewReaction"}}
		}
		if seen[t.Species.Name] {
			return nil, DomainError{message: fmt.Sprintf("species %s appears twice in the reaction", t.Species.Name), deco: []string{"NewReaction"}}
		}
		seen[t.Species.Name] = true
		c := t.Coeff
		if t.Role == Reactant {
			c = -c
		}
		R.species = append(R.species, t.Species)
		R.coeffs = append(R.coeffs, c)
	}
	return R, nil
}

// K returns the equilibrium constant of the reaction.
func (R *Reaction) K() float64 {
	return R.k
}

// Species returns the species referenced by the reaction. The slice is
// owned by the reaction and must not be modified.
func (R *Reaction) Species() []*Species {
	return R.species
}

// Residual returns sum(coeff_i*x_i)-ln(K), where x are the natural-log
// concentrations of the referenced species, in Species() order. The
// concentrations c are not used; they are part of the Equation interface
// for the benefit of conservation rows.
func (R *Reaction) Residual(c, x []float64) float64 {
	r := -R.lnk
	for i, v := range R.coeffs {
		r += v * x[i]
	}
	return r
}

// Deriv returns the derivative of the residual with respect to the
// log-concentration of the ith referenced species. It is simply the
// stoichiometric coefficient: mass-action rows are linear in log space.
func (R *Reaction) Deriv(c, x []float64, i int) float64 {
	return R.coeffs[i]
}

// String renders the reaction in the usual chemical notation,
// e.g. "HA <=> H+ + A-". Unit coefficients are omitted.
func (R *Reaction) String() string {
	var reactants, products []string
	for i, v := range R.species {
		co := math.Abs(R.coeffs[i])
		s := v.Name
		if co != 1 {
			s = fmt.Sprintf("%g%s", co, s)
		}
		if R.coeffs[i] < 0 {
			reactants = append(reactants, s)
		} else {
			products = append(products, s)
		}
	}
	return strings.Join(reactants, " + ") + " <=> " + strings.Join(products, " + ")
}
