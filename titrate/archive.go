package titrate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/goequil"
)

//Sweep archives. The format is described in doc.go: a magic line, a line of
//species names, then one text line per step, the whole stream compressed
//with zstd.

const magic = "goequil sweep 1"

//SweepW writes a sweep archive step by step.
type SweepW struct {
	f         *os.File
	h         io.WriteCloser
	names     []string
	filename  string
	writeable bool
}

// NewWriter creates a sweep archive with the given species names and
// returns a writer for it. Names must not contain spaces.
func NewWriter(name string, names []string) (*SweepW, error) {
	if len(names) == 0 {
		return nil, Error{NilData, name, []string{"NewWriter"}, true}
	}
	for _, v := range names {
		if v == "" || strings.ContainsAny(v, " \t\n") {
			return nil, Error{BadName + ": '" + v + "'", name, []string{"NewWriter"}, true}
		}
	}
	W := new(SweepW)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.h, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		W.f.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.names = append([]string{}, names...)
	W.filename = name
	W.writeable = true
	W.h.Write([]byte(magic + "\n"))
	W.h.Write([]byte(strings.Join(W.names, " ") + "\n"))
	return W, nil
}

// WNext writes the next step: the titrant right-hand side and the
// concentration of every species, in the writer's names order.
func (W *SweepW) WNext(rhs float64, conc []float64) error {
	if !W.writeable {
		return Error{UnIniWrite, W.filename, []string{"WNext"}, true}
	}
	if conc == nil {
		return Error{NilData, W.filename, []string{"WNext"}, true}
	}
	if len(conc) != len(W.names) {
		return Error{fmt.Sprintf("%d concentrations given, but %d expected", len(conc), len(W.names)), W.filename, []string{"WNext"}, true}
	}
	fields := make([]string, 1, len(conc)+1)
	fields[0] = strconv.FormatFloat(rhs, 'e', 12, 64)
	for _, v := range conc {
		fields = append(fields, strconv.FormatFloat(v, 'e', 12, 64))
	}
	_, err := W.h.Write([]byte(strings.Join(fields, " ") + "\n"))
	if err != nil {
		return Error{err.Error(), W.filename, []string{"WNext"}, true}
	}
	return nil
}

// Close flushes and closes the archive. The writer can not be used after
// this call.
func (W *SweepW) Close() {
	if W == nil {
		return
	}
	if W.writeable {
		W.h.Close()
		W.f.Close()
	}
	W.writeable = false
}

//SweepR reads a sweep archive step by step.
type SweepR struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Scanner
	names    []string
	filename string
	readable bool
}

//*zstd.Decoder doesn't implement io.ReadCloser (Close returns nothing),
//so it gets a small wrap.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

// New opens a sweep archive for reading and checks its header.
func New(name string) (*SweepR, error) {
	R := new(SweepR)
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	d, err := zstd.NewReader(R.f)
	if err != nil {
		R.f.Close()
		return nil, Error{err.Error(), name, []string{"New"}, true}
	}
	R.z = zstdql{d.Close, d}
	R.h = bufio.NewScanner(R.z)
	R.readable = true
	if !R.h.Scan() || R.h.Text() != magic {
		R.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	if !R.h.Scan() {
		R.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	R.names = strings.Fields(R.h.Text())
	if len(R.names) == 0 {
		R.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	return R, nil
}

// Names returns the species names of the archive, in the order of the
// concentrations returned by Next.
func (R *SweepR) Names() []string {
	return append([]string{}, R.names...)
}

// Next returns the next step of the archive: the titrant right-hand side
// and the concentration of every species. At the end of the archive it
// returns a non-critical Error for which IsLastStep is true.
func (R *SweepR) Next() (float64, []float64, error) {
	if !R.readable {
		return 0, nil, Error{UnIniRead, R.filename, []string{"Next"}, true}
	}
	if !R.h.Scan() {
		if err := R.h.Err(); err != nil {
			return 0, nil, Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		return 0, nil, Error{EOF, R.filename, []string{"Next"}, false}
	}
	fields := strings.Fields(R.h.Text())
	if len(fields) != len(R.names)+1 {
		return 0, nil, Error{WrongFormat, R.filename, []string{"Next"}, true}
	}
	rhs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, nil, Error{WrongFormat + ": " + err.Error(), R.filename, []string{"Next"}, true}
	}
	conc := make([]float64, len(R.names))
	for i, v := range fields[1:] {
		conc[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, nil, Error{WrongFormat + ": " + err.Error(), R.filename, []string{"Next"}, true}
		}
	}
	return rhs, conc, nil
}

// ReadCurve reads a whole archive into a Curve.
func (R *SweepR) ReadCurve() (*Curve, error) {
	curve := new(Curve)
	curve.names = R.Names()
	for {
		rhs, conc, err := R.Next()
		if err != nil {
			if IsLastStep(err) {
				break
			}
			return nil, errDecorate(err, "ReadCurve")
		}
		curve.rhs = append(curve.rhs, rhs)
		curve.conc = append(curve.conc, conc)
	}
	return curve, nil
}

// Close closes the archive. The reader can not be used after this call.
func (R *SweepR) Close() {
	if R == nil {
		return
	}
	if R.readable {
		R.z.Close()
		R.f.Close()
	}
	R.readable = false
}

// WriteCurve writes a whole curve as a sweep archive.
func WriteCurve(name string, curve *Curve) error {
	if curve == nil {
		return Error{NilData, name, []string{"WriteCurve"}, true}
	}
	W, err := NewWriter(name, curve.names)
	if err != nil {
		return errDecorate(err, "WriteCurve")
	}
	defer W.Close()
	for i, rhs := range curve.rhs {
		if err := W.WNext(rhs, curve.conc[i]); err != nil {
			return errDecorate(err, "WriteCurve")
		}
	}
	return nil
}

// IsLastStep returns true if the error just signals the normal end of a
// sweep archive.
func IsLastStep(err error) bool {
	e, ok := err.(Error)
	return ok && !e.critical && strings.Contains(e.message, EOF)
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(equil.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for titrate errors. It fulfills equil.Error.
type Error struct {
	message  string
	filename string //the archive with problems, or empty if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("goequil/titrate error: %s", err.message)
	}
	return fmt.Sprintf("goequil/titrate: sweep archive %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the archive associated to the error, if any
func (err Error) FileName() string { return err.filename }

// Critical returns true unless the error just signals the end of an archive
func (err Error) Critical() bool { return err.critical }

const (
	UnIniRead         = "Archive object uninitialized to read"
	UnIniWrite        = "Archive object uninitialized to write"
	UnableToOpen      = "Unable to open file"
	WrongFormat       = "Wrong format in the sweep archive"
	NilData           = "Given nil data"
	BadName           = "Species names can not be empty or contain spaces"
	NotInCurve        = "Species not present in the curve"
	NotEnoughSteps    = "Not enough steps"
	TargetNotInSystem = "Target constraint not registered in the system"
	EOF               = "EOF"
)
