package titrate

import (
	"fmt"
	"math"

	"github.com/rmera/goequil"
	"gonum.org/v1/gonum/floats"
)

//Curve is the result of a titration sweep: for every step, the titrant
//right-hand side and the equilibrium concentration of every species.
type Curve struct {
	names []string
	rhs   []float64
	conc  [][]float64 //per step, in names order
}

// Names returns the species names of the curve, in the order used by the
// per-step concentration slices.
func (C *Curve) Names() []string {
	return C.names
}

// Len returns the number of steps in the curve.
func (C *Curve) Len() int {
	return len(C.rhs)
}

// RHS returns the titrant right-hand side of every step.
func (C *Curve) RHS() []float64 {
	return C.rhs
}

// Concentration returns the concentration of the named species at every
// step. It returns an Error if the species is not in the curve.
func (C *Curve) Concentration(name string) ([]float64, error) {
	for i, v := range C.names {
		if v == name {
			ret := make([]float64, len(C.conc))
			for j, step := range C.conc {
				ret[j] = step[i]
			}
			return ret, nil
		}
	}
	return nil, Error{NotInCurve + ": " + name, "", []string{"Concentration"}, true}
}

// PH returns -log10 of the concentration of the named species (normally
// "H+") at every step.
func (C *Curve) PH(name string) ([]float64, error) {
	conc, err := C.Concentration(name)
	if err != nil {
		return nil, errDecorate(err, "PH")
	}
	for i, v := range conc {
		conc[i] = -math.Log10(v)
	}
	return conc, nil
}

// EquivalencePoint returns the index of the step right after the largest
// jump in the pH of the named species, i.e. the inflection of the curve.
// It needs at least 3 steps. For a clean equivalence point, sweep with
// evenly spaced right-hand sides.
func (C *Curve) EquivalencePoint(name string) (int, error) {
	if C.Len() < 3 {
		return -1, Error{NotEnoughSteps, "", []string{"EquivalencePoint"}, true}
	}
	ph, err := C.PH(name)
	if err != nil {
		return -1, errDecorate(err, "EquivalencePoint")
	}
	jumps := make([]float64, len(ph)-1)
	for i := range jumps {
		jumps[i] = math.Abs(ph[i+1] - ph[i])
	}
	return floats.MaxIdx(jumps) + 1, nil
}

// Sweep solves the system once per element of rhs, setting the target
// constraint's right-hand side to that element first and warm-starting
// every solve after the first from the preceding solution. The target must
// be a constraint registered in the system. On a failed step, Sweep returns
// the curve of the completed steps together with an Error that records the
// step, wrapping the solver's error.
//
// A nil opts means equil.DefaultOptions. The caller's Options value is not
// modified. One sweep owns its system: for concurrent sweeps, give each
// goroutine its own clone (equil.System.Clone) and the cloned constraint.
func Sweep(S *equil.System, target *equil.Constraint, rhs []float64, opts *equil.Options) (*Curve, error) {
	if S == nil || target == nil {
		return nil, Error{NilData, "", []string{"Sweep"}, true}
	}
	if len(rhs) == 0 {
		return nil, Error{NotEnoughSteps, "", []string{"Sweep"}, true}
	}
	registered := false
	for _, c := range S.Constraints() {
		if c == target {
			registered = true
			break
		}
	}
	if !registered {
		return nil, Error{TargetNotInSystem, "", []string{"Sweep"}, true}
	}
	o := equil.DefaultOptions()
	if opts != nil {
		*o = *opts
	}
	curve := new(Curve)
	curve.names = S.SpeciesNames()
	for step, v := range rhs {
		if err := target.SetRHS(v); err != nil {
			return curve, stepError(err, step, v)
		}
		res, err := equil.Solve(S, o)
		if err != nil {
			return curve, stepError(err, step, v)
		}
		c := make([]float64, len(curve.names))
		for i, name := range curve.names {
			c[i] = res.Concentrations[name]
		}
		curve.rhs = append(curve.rhs, v)
		curve.conc = append(curve.conc, c)
		o.InitialGuess = res.Concentrations //warm start for the next step
	}
	return curve, nil
}

func stepError(err error, step int, rhs float64) error {
	return Error{fmt.Sprintf("step %d (rhs %g) failed: %s", step, rhs, err.Error()), "", []string{"Sweep"}, true}
}
