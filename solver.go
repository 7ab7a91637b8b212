/*
 * solver.go, part of goequil.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//The solver: a damped Newton-Raphson iteration on the mixed log/linear
//residual system assembled by System.Evaluate. All unknowns are natural-log
//concentrations, so the exponential update keeps every concentration
//positive without any projection; a floor on the log values keeps fully
//consumed species from dragging the iteration towards -Inf.

//Options holds the solver configuration. The zero value is not usable;
//start from DefaultOptions. A single Options value must not be shared
//between concurrent solves if any field is being changed, but read-only
//sharing is fine (Solve does not modify it).
type Options struct {
	//Convergence threshold for the residuals. Mass-action residuals (log
	//space) are compared against it directly; each conservation residual is
	//first divided by the scale of its own row, max(|rhs|, largest
	//|coeff*conc| term), so the test stays relative however dilute the
	//totals are.
	Tolerance float64
	//Iteration cap. Exceeding it returns a ConvergenceError.
	MaxIterations int
	//Cap on the step halvings of the backtracking line search within one
	//iteration. Exceeding it without reducing the residual returns a
	//ConvergenceError.
	MaxBacktracks int
	//Concentrations are not allowed below this value. Keeps log-space
	//iterates finite when a species is, for all practical purposes, fully
	//consumed.
	ConcentrationFloor float64
	//A Jacobian whose estimated condition number exceeds this is treated as
	//singular (SingularJacobianError).
	MaxCond float64
	//Optional starting concentrations by species name. Species absent from
	//the map get the heuristic guess. Values must be positive; invalid
	//entries cause a DomainError.
	InitialGuess map[string]float64
}

// DefaultOptions returns the default solver configuration: tolerance 1e-10,
// 100 iterations, 20 backtracks, concentration floor 1e-30, maximum
// condition number 1e14.
func DefaultOptions() *Options {
	return &Options{
		Tolerance:          1e-10,
		MaxIterations:      100,
		MaxBacktracks:      20,
		ConcentrationFloor: 1e-30,
		MaxCond:            1e14,
	}
}

//Result holds a converged solution.
type Result struct {
	//Equilibrium concentration of every species, by name.
	Concentrations map[string]float64
	//Newton steps taken.
	Iterations int
	//Largest row-scaled residual at the solution (see Options.Tolerance);
	//always below the tolerance used.
	ResidualNorm float64
}

// PH returns the pH corresponding to a hydron concentration, -log10(c).
func PH(c float64) float64 {
	return -math.Log10(c)
}

// Solve finds concentrations that satisfy every reaction and constraint of
// the system, starting from opts.InitialGuess where given, from the
// concentrations already stored in the species where positive, and from a
// heuristic guess elsewhere (see initialGuess). On success the
// concentrations are also written back into the system's Species values,
// which makes a subsequent Solve on the same system (say, after nudging a
// constraint's rhs) start from the last solution. A nil opts means
// DefaultOptions.
//
// The returned error is an IllPosedError (or other construction error) if
// the system was never valid, a SingularJacobianError on numerical
// degeneracy, or a ConvergenceError carrying the best concentrations found
// if the iteration or backtrack cap is exceeded.
func Solve(S *System, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := S.Validate(); err != nil {
		return nil, errDecorate(err, "Solve")
	}
	n := S.Len()
	x, err := initialGuess(S, opts)
	if err != nil {
		return nil, errDecorate(err, "Solve")
	}
	floor := math.Log(opts.ConcentrationFloor)
	c := make([]float64, n)
	expInto(c, x)

	fdata := make([]float64, n)
	F := mat.NewVecDense(n, fdata)
	J := mat.NewDense(n, n, nil)
	ftrial := make([]float64, n)
	Ftrial := mat.NewVecDense(n, ftrial)
	xtrial := make([]float64, n)
	ctrial := make([]float64, n)
	rhs := mat.NewVecDense(n, nil)
	delta := mat.NewVecDense(n, nil)
	var lu mat.LU

	tol := opts.Tolerance
	S.Evaluate(c, x, F, J)
	norm := S.scaledNorm(c, fdata)
	var iter int
	for iter = 0; iter < opts.MaxIterations; iter++ {
		if norm < tol {
			return finish(S, c, iter, norm), nil
		}
		lu.Factorize(J)
		if cond := lu.Cond(); cond > opts.MaxCond || math.IsNaN(cond) {
			return nil, SingularJacobianError{Iteration: iter, Cond: cond, Concentrations: concMap(S, c), deco: []string{"Solve"}}
		}
		rhs.ScaleVec(-1, F)
		if err := lu.SolveVecTo(delta, false, rhs); err != nil {
			return nil, SingularJacobianError{Iteration: iter, Cond: lu.Cond(), Concentrations: concMap(S, c), deco: []string{"Solve"}}
		}
		//backtracking line search: halve the step until the residual norm
		//actually decreases. The exponential update can't make any
		//concentration non-positive, so feasibility needs no extra check
		//beyond the floor clamp.
		alpha := 1.0
		improved := false
		var trialnorm float64
		for bt := 0; bt < opts.MaxBacktracks; bt++ {
			for i := range xtrial {
				xtrial[i] = math.Max(x[i]+alpha*delta.AtVec(i), floor)
			}
			expInto(ctrial, xtrial)
			S.Residuals(ctrial, xtrial, Ftrial)
			trialnorm = S.scaledNorm(ctrial, ftrial)
			if trialnorm < norm {
				improved = true
				break
			}
			alpha /= 2
		}
		if !improved {
			return nil, ConvergenceError{Iterations: iter, ResidualNorm: norm, Concentrations: concMap(S, c), message: noImprovement, deco: []string{"Solve"}}
		}
		copy(x, xtrial)
		copy(c, ctrial)
		S.Evaluate(c, x, F, J)
		norm = S.scaledNorm(c, fdata)
	}
	if norm < tol {
		return finish(S, c, iter, norm), nil
	}
	return nil, ConvergenceError{Iterations: iter, ResidualNorm: norm, Concentrations: concMap(S, c), message: noConvergence, deco: []string{"Solve"}}
}

//writes the solution back into the species and builds the Result.
func finish(S *System, c []float64, iter int, norm float64) *Result {
	for i, sp := range S.species {
		sp.SetConcentration(c[i]) //can't fail, c is positive
	}
	return &Result{Concentrations: concMap(S, c), Iterations: iter, ResidualNorm: norm}
}

func concMap(S *System, c []float64) map[string]float64 {
	m := make(map[string]float64, len(c))
	for i, sp := range S.species {
		m[sp.Name] = c[i]
	}
	return m
}

func expInto(c, x []float64) {
	for i, v := range x {
		c[i] = math.Exp(v)
	}
}

//initialGuess returns starting log-concentrations, by priority: the value
//in opts.InitialGuess; the concentration currently stored in the species,
//if positive (so a solved system re-solves from its own solution, as in a
//titration); the total of a mass-balance-like constraint (positive rhs,
//all-positive coefficients) divided evenly among the constraint's species;
//and finally 1e-7, a sensible scale for minor aqueous species.
func initialGuess(S *System, opts *Options) ([]float64, error) {
	const minor = 1e-7
	floor := opts.ConcentrationFloor
	c := make([]float64, S.Len())
	for i := range c {
		c[i] = minor
	}
	for _, con := range S.constraints {
		if con.rhs <= 0 {
			continue
		}
		balance := true
		for _, v := range con.coeffs {
			if v <= 0 {
				balance = false
				break
			}
		}
		if !balance {
			continue
		}
		for i, sp := range con.species {
			share := con.rhs / (con.coeffs[i] * float64(len(con.species)))
			c[S.index[sp.Name]] = share
		}
	}
	for i, sp := range S.species {
		if sp.conc > 0 {
			c[i] = sp.conc
		}
	}
	for name, v := range opts.InitialGuess {
		i, ok := S.index[name]
		if !ok {
			return nil, UnknownSpeciesError{Name: name, deco: []string{"initialGuess"}}
		}
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, DomainError{message: "initial guess for " + name + " must be positive and finite", deco: []string{"initialGuess"}}
		}
		c[i] = v
	}
	x := make([]float64, len(c))
	for i, v := range c {
		if v < floor {
			v = floor
		}
		x[i] = math.Log(v)
	}
	return x, nil
}
