/*
 * system.go, part of goequil.
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
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//System owns a set of species (unique by name), the reactions relating them
//and the conservation constraints on them, and assembles the whole thing
//into the square residual/Jacobian system the solver iterates on. Species
//are registered first; reactions and constraints may only reference
//registered species. A System is not safe for concurrent solves; use Clone
//to run sweeps in parallel.
type System struct {
	species     []*Species
	index       map[string]int
	reactions   []*Reaction
	constraints []*Constraint
	rows        []*eqrow
}

//one assembled row: the equation plus the global index of each of its
//species and scratch space for their gathered c and x values.
type eqrow struct {
	eq   Equation
	idx  []int
	cbuf []float64
	xbuf []float64
}

// NewSystem returns an empty system.
func NewSystem() *System {
	S := new(System)
	S.index = make(map[string]int)
	return S
}

// BuildSystem registers all the given species, reactions and constraints,
// in that order, and validates that the result is well posed. Any of the
// errors of the AddX methods or Validate can be returned.
func BuildSystem(species []*Species, reactions []*Reaction, constraints []*Constraint) (*System, error) {
	S := NewSystem()
	for _, sp := range species {
		if err := S.AddSpecies(sp); err != nil {
			return nil, errDecorate(err, "BuildSystem")
		}
	}
	for _, r := range reactions {
		if err := S.AddReaction(r); err != nil {
			return nil, errDecorate(err, "BuildSystem")
		}
	}
	for _, c := range constraints {
		if err := S.AddConstraint(c); err != nil {
			return nil, errDecorate(err, "BuildSystem")
		}
	}
	if err := S.Validate(); err != nil {
		return nil, errDecorate(err, "BuildSystem")
	}
	return S, nil
}

// AddSpecies registers a species in the system. It returns a
// DuplicateNameError if a species with the same name is already present.
func (S *System) AddSpecies(sp *Species) error {
	if sp == nil {
		return DomainError{message: "nil species", deco: []string{"AddSpecies"}}
	}
	if _, ok := S.index[sp.Name]; ok {
		return DuplicateNameError{Name: sp.Name, deco: []string{"AddSpecies"}}
	}
	S.index[sp.Name] = len(S.species)
	S.species = append(S.species, sp)
	return nil
}

// AddReaction registers a reaction. Every species the reaction references
// must already be registered, otherwise an UnknownSpeciesError is returned.
func (S *System) AddReaction(r *Reaction) error {
	if r == nil {
		return DomainError{message: "nil reaction", deco: []string{"AddReaction"}}
	}
	row, err := S.newRow(r)
	if err != nil {
		return errDecorate(err, "AddReaction")
	}
	S.reactions = append(S.reactions, r)
	//reaction rows stay before constraint rows, whatever the add order
	S.rows = append(S.rows, nil)
	copy(S.rows[len(S.reactions):], S.rows[len(S.reactions)-1:])
	S.rows[len(S.reactions)-1] = row
	return nil
}

// AddConstraint registers a conservation constraint, with the same species
// validation as AddReaction. The same constraint object may be registered
// in several systems (or, mistakenly, twice in one; that mistake surfaces
// later as a singular Jacobian, not here, since the duplicated row is a
// numerical, not structural, problem).
func (S *System) AddConstraint(c *Constraint) error {
	if c == nil {
		return DomainError{message: "nil constraint", deco: []string{"AddConstraint"}}
	}
	row, err := S.newRow(c)
	if err != nil {
		return errDecorate(err, "AddConstraint")
	}
	S.constraints = append(S.constraints, c)
	S.rows = append(S.rows, row)
	return nil
}

func (S *System) newRow(eq Equation) (*eqrow, error) {
	sps := eq.Species()
	row := &eqrow{eq: eq, idx: make([]int, len(sps)), cbuf: make([]float64, len(sps)), xbuf: make([]float64, len(sps))}
	for i, sp := range sps {
		j, ok := S.index[sp.Name]
		if !ok {
			return nil, UnknownSpeciesError{Name: sp.Name}
		}
		row.idx[i] = j
	}
	return row, nil
}

// Validate checks that the system is square: the number of reactions plus
// constraints must equal the number of species. It returns an IllPosedError
// otherwise, and a DomainError for a system with no species at all.
func (S *System) Validate() error {
	if len(S.species) == 0 {
		return DomainError{message: "empty system", deco: []string{"Validate"}}
	}
	if len(S.rows) != len(S.species) {
		return IllPosedError{Species: len(S.species), Equations: len(S.rows), deco: []string{"Validate"}}
	}
	return nil
}

// Len returns the number of species in the system.
func (S *System) Len() int {
	return len(S.species)
}

// NEquations returns the number of equations (reactions plus constraints).
func (S *System) NEquations() int {
	return len(S.rows)
}

// Species returns the registered species with the given name, or nil.
func (S *System) Species(name string) *Species {
	i, ok := S.index[name]
	if !ok {
		return nil
	}
	return S.species[i]
}

// SpeciesNames returns the names of all registered species, in registration
// order. This is the order of the concentration vector.
func (S *System) SpeciesNames() []string {
	names := make([]string, len(S.species))
	for i, sp := range S.species {
		names[i] = sp.Name
	}
	return names
}

// Constraints returns the registered constraints in registration order.
// Useful after Clone, to get a handle on the cloned counterpart of a
// constraint (say, the one a titration sweep mutates).
func (S *System) Constraints() []*Constraint {
	return S.constraints
}

// Reactions returns the registered reactions in registration order.
func (S *System) Reactions() []*Reaction {
	return S.reactions
}

// Concentrations returns the current concentration of every species, by
// name. After a successful solve these are the equilibrium values.
func (S *System) Concentrations() map[string]float64 {
	c := make(map[string]float64, len(S.species))
	for _, sp := range S.species {
		c[sp.Name] = sp.Concentration()
	}
	return c
}

// ChargeBalance builds the electroneutrality constraint
// sum(charge_i*c_i) = 0 over all registered species with non-zero charge.
// It returns a DomainError if every registered species is neutral.
func (S *System) ChargeBalance() (*Constraint, error) {
	var terms []ConstraintTerm
	for _, sp := range S.species {
		if sp.Charge != 0 {
			terms = append(terms, ConstraintTerm{Species: sp, Coeff: float64(sp.Charge)})
		}
	}
	if len(terms) == 0 {
		return nil, DomainError{message: "charge balance over neutral species only", deco: []string{"ChargeBalance"}}
	}
	c, err := NewConstraint(terms, 0)
	if err != nil {
		return nil, errDecorate(err, "ChargeBalance")
	}
	return c, nil
}

// MassBalance builds the conservation constraint for one element (or any
// conserved label): sum(n_i*c_i) = total, over the registered species whose
// Composition contains the element, with n_i the count in each. It returns
// a DomainError if no species contains the element or if total is negative.
func (S *System) MassBalance(element string, total float64) (*Constraint, error) {
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, DomainError{message: fmt.Sprintf("total for %s must be non-negative and finite, got %g", element, total), deco: []string{"MassBalance"}}
	}
	var terms []ConstraintTerm
	for _, sp := range S.species {
		if n, ok := sp.Composition[element]; ok && n != 0 {
			terms = append(terms, ConstraintTerm{Species: sp, Coeff: float64(n)})
		}
	}
	if len(terms) == 0 {
		return nil, DomainError{message: "no species contains " + element, deco: []string{"MassBalance"}}
	}
	c, err := NewConstraint(terms, total)
	if err != nil {
		return nil, errDecorate(err, "MassBalance")
	}
	return c, nil
}

// Clone returns a deep copy of the system: species values, reactions and
// constraints are all duplicated, so the clone can be solved concurrently
// with the original. Use Constraints/Reactions on the clone to recover
// handles to the copied objects (order is preserved).
func (S *System) Clone() *System {
	N := NewSystem()
	for _, sp := range S.species {
		N.AddSpecies(sp.Copy()) //can't fail, names were unique already
	}
	for _, r := range S.reactions {
		nr := new(Reaction)
		nr.k = r.k
		nr.lnk = r.lnk
		nr.coeffs = append([]float64{}, r.coeffs...)
		nr.species = make([]*Species, len(r.species))
		for i, sp := range r.species {
			nr.species[i] = N.species[S.index[sp.Name]]
		}
		N.AddReaction(nr)
	}
	for _, c := range S.constraints {
		nc := new(Constraint)
		nc.rhs = c.rhs
		nc.coeffs = append([]float64{}, c.coeffs...)
		nc.species = make([]*Species, len(c.species))
		for i, sp := range c.species {
			nc.species[i] = N.species[S.index[sp.Name]]
		}
		N.AddConstraint(nc)
	}
	return N
}

// Residuals fills F with the residual vector of the system at the given
// concentrations c and log-concentrations x (both in species registration
// order): reaction rows first, then constraint rows. F must have length
// NEquations.
func (S *System) Residuals(c, x []float64, F *mat.VecDense) {
	for i, row := range S.rows {
		gather(row, c, x)
		F.SetVec(i, row.eq.Residual(row.cbuf, row.xbuf))
	}
}

// Evaluate fills F with the residual vector and J with the Jacobian of the
// residuals with respect to the log-concentrations, at the given c and x.
// J must be NEquations by Len; its unreferenced entries are set to zero.
func (S *System) Evaluate(c, x []float64, F *mat.VecDense, J *mat.Dense) {
	J.Zero()
	for i, row := range S.rows {
		gather(row, c, x)
		F.SetVec(i, row.eq.Residual(row.cbuf, row.xbuf))
		for k, j := range row.idx {
			J.Set(i, j, row.eq.Deriv(row.cbuf, row.xbuf, k))
		}
	}
}

func gather(row *eqrow, c, x []float64) {
	for k, j := range row.idx {
		row.cbuf[k] = c[j]
		row.xbuf[k] = x[j]
	}
}

//scaledNorm returns the largest residual magnitude relative to the natural
//scale of its row. Mass-action rows live in log space where everything is
//order one, so they count as-is. Each conservation row is divided by
//the largest of |rhs| and its |a_i*c_i| terms, which keeps the
//convergence test relative for arbitrarily dilute totals and still
//meaningful for a charge balance, whose rhs is zero. f holds the raw
//residuals in row order, c the concentrations in registration order.
func (S *System) scaledNorm(c, f []float64) float64 {
	var norm float64
	nr := len(S.reactions)
	for _, v := range f[:nr] {
		if a := math.Abs(v); a > norm {
			norm = a
		}
	}
	for j, con := range S.constraints {
		scale := math.Abs(con.rhs)
		for i, sp := range con.species {
			if t := math.Abs(con.coeffs[i] * c[S.index[sp.Name]]); t > scale {
				scale = t
			}
		}
		if scale == 0 { //possible only if the residual is zero too
			continue
		}
		if a := math.Abs(f[nr+j]) / scale; a > norm {
			norm = a
		}
	}
	return norm
}

// String lists the species (sorted by name, with charges) and the reactions
// of the system. Meant for logging and debugging.
func (S *System) String() string {
	names := S.SpeciesNames()
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "system of %d species, %d reactions, %d constraints\n", len(S.species), len(S.reactions), len(S.constraints))
	b.WriteString("species: " + strings.Join(names, ", ") + "\n")
	for _, r := range S.reactions {
		fmt.Fprintf(&b, "%v (K=%g)\n", r, r.k)
	}
	return b.String()
}

//errDecorate calls Decorate on err if it implements equil.Error, and
//returns it. Errors from outside the library pass through unchanged.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
