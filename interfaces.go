/*
 * interfaces.go, part of goequil.
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

//Interfaces for the library. The main one is Equation, which is what the
//System actually assembles; Reaction and Constraint are just its two
//flavors. There is no deeper hierarchy, on purpose.

// An Equation is anything that contributes one row to the assembled
// equilibrium system: a mass-action law (Reaction) or a linear conservation
// relation (Constraint). An Equation only knows about the species it
// references; the System maps those to positions in the global
// concentration vector.
type Equation interface {
	//Species returns the species referenced by the equation, in a fixed
	//internal order. The other two methods take values in this same order.
	Species() []*Species

	//Residual returns the signed deviation of the equation from zero, given
	//the concentrations c and natural-log concentrations x of the referenced
	//species. Mass-action rows use x, conservation rows use c.
	Residual(c, x []float64) float64

	//Deriv returns the partial derivative of the residual with respect to
	//the log-concentration of the ith referenced species. Note that for
	//equations linear in c (not in x) the chain rule brings in a factor
	//c_i, so Deriv is not constant for them.
	Deriv(c, x []float64, i int) float64
}

//Errors

// Error is the interface all errors of this library implement. The Decorate
// method allows to add and retrieve info from the error without changing its
// type or wrapping it, so callers can still recover the concrete type (and
// whatever iterate/diagnostic data it carries) with a type switch.
type Error interface {
	Error() string
	Decorate(string) []string //Adds the given string to the "decoration" slice and returns the result. If passed an empty string, just returns the current slice. The slice should contain the names of the functions in the calling stack, plus, optionally, extra info in the form "FunctionName: Extra info".
}
