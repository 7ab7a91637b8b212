/*
 * chem.go, part of goequil.
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

import "math"

//Species contains a chemical species taking part in one or more equilibria.
//Its structural data (name, charge, composition) is set on creation and not
//meant to change afterwards; only the concentration value is mutated, by the
//solver, during iteration.
type Species struct {
	Name        string
	Charge      int            //sign-sensitive, in elementary charge units
	Composition map[string]int //element symbol (or any conserved label) to count. May be nil.
	conc        float64
}

//Species methods

// NewSpecies returns a species with the given name and charge and no
// elemental composition. The name is the species' identity within a system.
func NewSpecies(name string, charge int) *Species {
	return &Species{Name: name, Charge: charge}
}

// NewSpeciesComp returns a species with the given name, charge and elemental
// composition. The composition keys are whatever labels the caller wants to
// conserve ("Na", "Cl", or a whole moiety such as "Ac" for acetate); they
// are what System.MassBalance looks at.
func NewSpeciesComp(name string, charge int, composition map[string]int) *Species {
	comp := make(map[string]int, len(composition))
	for k, v := range composition {
		comp[k] = v
	}
	return &Species{Name: name, Charge: charge, Composition: comp}
}

// Concentration returns the current concentration value of the species.
// Before the owning system has been solved, this is whatever was last set
// (zero for a fresh species).
func (S *Species) Concentration() float64 {
	return S.conc
}

// SetConcentration sets the concentration of the species. It returns a
// DomainError if the value is negative, NaN or infinite.
func (S *Species) SetConcentration(c float64) error {
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return DomainError{message: "invalid concentration for " + S.Name, deco: []string{"SetConcentration"}}
	}
	S.conc = c
	return nil
}

// Copy returns a copy of the Species object.
func (S *Species) Copy() *Species {
	if S == nil {
		panic("attempted to copy a nil species")
	}
	NewSp := new(Species)
	NewSp.Name = S.Name
	NewSp.Charge = S.Charge
	NewSp.conc = S.conc
	if S.Composition != nil {
		NewSp.Composition = make(map[string]int, len(S.Composition))
		for k, v := range S.Composition {
			NewSp.Composition[k] = v
		}
	}
	return NewSp
}

func (S *Species) String() string {
	return S.Name
}
