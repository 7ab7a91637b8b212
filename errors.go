/*
 * errors.go, part of goequil.
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

import "fmt"

//The concrete error types of the library. Construction-time problems
//(DomainError, DuplicateNameError, UnknownSpeciesError, IllPosedError) are
//detected before any solving happens. The numerical ones
//(SingularJacobianError, ConvergenceError) carry the offending iterate so
//the caller can diagnose, or decide that an approximate answer is good
//enough. All implement equil.Error.

// DomainError means an invalid value was given for a physical quantity:
// a negative concentration, a non-positive equilibrium constant, a zero
// stoichiometric coefficient and so on.
type DomainError struct {
	message string
	deco    []string
}

func (err DomainError) Error() string { return "goequil: " + err.message }

// Decorate adds new information to the error
func (err DomainError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// DuplicateNameError means a species was added to a system that already
// contains a species with the same name.
type DuplicateNameError struct {
	Name string
	deco []string
}

func (err DuplicateNameError) Error() string {
	return fmt.Sprintf("goequil: species %s already present in the system", err.Name)
}

// Decorate adds new information to the error
func (err DuplicateNameError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// UnknownSpeciesError means a reaction or constraint references a species
// that has not been registered in the system.
type UnknownSpeciesError struct {
	Name string
	deco []string
}

func (err UnknownSpeciesError) Error() string {
	return fmt.Sprintf("goequil: species %s not registered in the system", err.Name)
}

// Decorate adds new information to the error
func (err UnknownSpeciesError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// IllPosedError means the number of equations (reactions plus constraints)
// does not match the number of species, so a square Newton system cannot
// be assembled.
type IllPosedError struct {
	Species   int
	Equations int
	deco      []string
}

func (err IllPosedError) Error() string {
	return fmt.Sprintf("goequil: ill-posed system: %d species but %d equations", err.Species, err.Equations)
}

// Decorate adds new information to the error
func (err IllPosedError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// SingularJacobianError means the Jacobian became numerically singular
// during an iteration, which normally points at a redundant or missing
// constraint. It carries the concentrations at the failing iterate.
type SingularJacobianError struct {
	Iteration      int
	Cond           float64
	Concentrations map[string]float64
	deco           []string
}

func (err SingularJacobianError) Error() string {
	return fmt.Sprintf("goequil: singular Jacobian at iteration %d (condition number %g)", err.Iteration, err.Cond)
}

// Decorate adds new information to the error
func (err SingularJacobianError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// ConvergenceError means the iteration or backtrack cap was exceeded. It
// carries the best concentrations found and the residual norm there, so a
// caller can still decide to use the approximate answer.
type ConvergenceError struct {
	Iterations     int
	ResidualNorm   float64
	Concentrations map[string]float64
	message        string
	deco           []string
}

func (err ConvergenceError) Error() string {
	return fmt.Sprintf("goequil: %s after %d iterations (residual norm %g)", err.message, err.Iterations, err.ResidualNorm)
}

// Decorate adds new information to the error
func (err ConvergenceError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Messages for ConvergenceError
const (
	noConvergence = "no convergence"
	noImprovement = "line search could not reduce the residual"
)
