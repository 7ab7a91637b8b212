/*
 * doc.go, part of goequil.
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

/*Package equil computes equilibrium concentrations for systems of simultaneous
chemical reactions, given their equilibrium constants and conservation conditions.



	**goEquil Capabilities**


    Builds reaction systems from species, mass-action equilibria and linear
	conservation (mass balance, charge balance) relations.

    Solves the resulting nonlinear system with a damped Newton-Raphson
	iteration in log-concentration space, so constants spanning many orders
	of magnitude (say, 1E-14 for water autoionization against 1E+6 for a
	strong acid) stay numerically tractable.

    Guarantees physically valid results: every concentration is positive
	and conservation relations hold to the requested tolerance.

    Builds charge-balance and elemental mass-balance constraints from the
	species themselves.

    Reuses one system across a titration sweep by updating constraint
	right-hand sides between solves (see the titrate sub-package).

    Plots titration curves (see the equiplot sub-package).


The numerical work is done with gonum (https://www.gonum.org).

The naming of some variables follows the chemistry convention rather
than the Go one: K is an equilibrium constant, c a concentration vector,
x its natural logarithm.

goEquil is written for acid-base and complexation equilibria in a single
phase. It does not parse chemical equations from text, and it does not
know about the temperature dependence of the constants; callers provide
species, stoichiometry and K values explicitly.

All errors returned by this package implement the equil.Error interface
and are concrete types that can be recovered with a type switch (see
errors.go).
*/
package equil
