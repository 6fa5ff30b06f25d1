package tensor

import "fmt"

// Dense3 is a row-major order-3 tensor of float64 values.
// data holds n0*n1*n2 elements; the last axis varies fastest.
type Dense3 struct {
	n0, n1, n2 int
	data       []float64
}

// NewDense3 creates an (n0,n1,n2) tensor initialized to zeros.
// Returns ErrInvalidDimensions when any extent is <= 0.
func NewDense3(n0, n1, n2 int) (*Dense3, error) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense3{n0: n0, n1: n1, n2: n2, data: make([]float64, n0*n1*n2)}, nil
}

// Dims returns the extents of all three axes.
func (t *Dense3) Dims() (int, int, int) { return t.n0, t.n1, t.n2 }

// Data exposes the flat backing slice for hot loops.
// Layout: index(i,j,k) = (i*n1+j)*n2 + k.
func (t *Dense3) Data() []float64 { return t.data }

// indexOf computes the flat index for (i,j,k) or returns ErrIndexOutOfBounds.
func (t *Dense3) indexOf(i, j, k int) (int, error) {
	if i < 0 || i >= t.n0 || j < 0 || j >= t.n1 || k < 0 || k >= t.n2 {
		return 0, fmt.Errorf("Dense3(%d,%d,%d): %w", i, j, k, ErrIndexOutOfBounds)
	}

	return (i*t.n1+j)*t.n2 + k, nil
}

// At retrieves the element at (i,j,k).
func (t *Dense3) At(i, j, k int) (float64, error) {
	idx, err := t.indexOf(i, j, k)
	if err != nil {
		return 0, err
	}

	return t.data[idx], nil
}

// Set assigns value v at (i,j,k).
func (t *Dense3) Set(i, j, k int, v float64) error {
	idx, err := t.indexOf(i, j, k)
	if err != nil {
		return err
	}
	t.data[idx] = v

	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Dense3) Clone() *Dense3 {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)

	return &Dense3{n0: t.n0, n1: t.n1, n2: t.n2, data: cp}
}

// Add accumulates o into the receiver element-wise.
// Returns ErrShapeMismatch when extents disagree.
func (t *Dense3) Add(o *Dense3) error {
	if o == nil || t.n0 != o.n0 || t.n1 != o.n1 || t.n2 != o.n2 {
		return ErrShapeMismatch
	}
	for idx := range t.data {
		t.data[idx] += o.data[idx]
	}

	return nil
}

// Scale multiplies every element by alpha in place.
func (t *Dense3) Scale(alpha float64) {
	for idx := range t.data {
		t.data[idx] *= alpha
	}
}

// Dense4 is a row-major order-4 tensor of float64 values.
type Dense4 struct {
	n0, n1, n2, n3 int
	data           []float64
}

// NewDense4 creates an (n0,n1,n2,n3) tensor initialized to zeros.
func NewDense4(n0, n1, n2, n3 int) (*Dense4, error) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense4{n0: n0, n1: n1, n2: n2, n3: n3, data: make([]float64, n0*n1*n2*n3)}, nil
}

// Dims returns the extents of all four axes.
func (t *Dense4) Dims() (int, int, int, int) { return t.n0, t.n1, t.n2, t.n3 }

// Data exposes the flat backing slice.
// Layout: index(i,j,k,l) = ((i*n1+j)*n2+k)*n3 + l.
func (t *Dense4) Data() []float64 { return t.data }

func (t *Dense4) indexOf(i, j, k, l int) (int, error) {
	if i < 0 || i >= t.n0 || j < 0 || j >= t.n1 ||
		k < 0 || k >= t.n2 || l < 0 || l >= t.n3 {
		return 0, fmt.Errorf("Dense4(%d,%d,%d,%d): %w", i, j, k, l, ErrIndexOutOfBounds)
	}

	return ((i*t.n1+j)*t.n2+k)*t.n3 + l, nil
}

// At retrieves the element at (i,j,k,l).
func (t *Dense4) At(i, j, k, l int) (float64, error) {
	idx, err := t.indexOf(i, j, k, l)
	if err != nil {
		return 0, err
	}

	return t.data[idx], nil
}

// Set assigns value v at (i,j,k,l).
func (t *Dense4) Set(i, j, k, l int, v float64) error {
	idx, err := t.indexOf(i, j, k, l)
	if err != nil {
		return err
	}
	t.data[idx] = v

	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Dense4) Clone() *Dense4 {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)

	return &Dense4{n0: t.n0, n1: t.n1, n2: t.n2, n3: t.n3, data: cp}
}

// Add accumulates o into the receiver element-wise.
func (t *Dense4) Add(o *Dense4) error {
	if o == nil || t.n0 != o.n0 || t.n1 != o.n1 || t.n2 != o.n2 || t.n3 != o.n3 {
		return ErrShapeMismatch
	}
	for idx := range t.data {
		t.data[idx] += o.data[idx]
	}

	return nil
}

// Scale multiplies every element by alpha in place.
func (t *Dense4) Scale(alpha float64) {
	for idx := range t.data {
		t.data[idx] *= alpha
	}
}

// Dense5 is a row-major order-5 tensor of float64 values.
type Dense5 struct {
	n0, n1, n2, n3, n4 int
	data               []float64
}

// NewDense5 creates an (n0,…,n4) tensor initialized to zeros.
func NewDense5(n0, n1, n2, n3, n4 int) (*Dense5, error) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 || n4 <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense5{n0: n0, n1: n1, n2: n2, n3: n3, n4: n4, data: make([]float64, n0*n1*n2*n3*n4)}, nil
}

// Dims returns the extents of all five axes.
func (t *Dense5) Dims() (int, int, int, int, int) { return t.n0, t.n1, t.n2, t.n3, t.n4 }

// Data exposes the flat backing slice.
// Layout: index(i,j,k,l,m) = (((i*n1+j)*n2+k)*n3+l)*n4 + m.
func (t *Dense5) Data() []float64 { return t.data }

func (t *Dense5) indexOf(i, j, k, l, m int) (int, error) {
	if i < 0 || i >= t.n0 || j < 0 || j >= t.n1 || k < 0 || k >= t.n2 ||
		l < 0 || l >= t.n3 || m < 0 || m >= t.n4 {
		return 0, fmt.Errorf("Dense5(%d,%d,%d,%d,%d): %w", i, j, k, l, m, ErrIndexOutOfBounds)
	}

	return (((i*t.n1+j)*t.n2+k)*t.n3+l)*t.n4 + m, nil
}

// At retrieves the element at (i,j,k,l,m).
func (t *Dense5) At(i, j, k, l, m int) (float64, error) {
	idx, err := t.indexOf(i, j, k, l, m)
	if err != nil {
		return 0, err
	}

	return t.data[idx], nil
}

// Set assigns value v at (i,j,k,l,m).
func (t *Dense5) Set(i, j, k, l, m int, v float64) error {
	idx, err := t.indexOf(i, j, k, l, m)
	if err != nil {
		return err
	}
	t.data[idx] = v

	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Dense5) Clone() *Dense5 {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)

	return &Dense5{n0: t.n0, n1: t.n1, n2: t.n2, n3: t.n3, n4: t.n4, data: cp}
}

// Add accumulates o into the receiver element-wise.
func (t *Dense5) Add(o *Dense5) error {
	if o == nil || t.n0 != o.n0 || t.n1 != o.n1 || t.n2 != o.n2 ||
		t.n3 != o.n3 || t.n4 != o.n4 {
		return ErrShapeMismatch
	}
	for idx := range t.data {
		t.data[idx] += o.data[idx]
	}

	return nil
}

// Scale multiplies every element by alpha in place.
func (t *Dense5) Scale(alpha float64) {
	for idx := range t.data {
		t.data[idx] *= alpha
	}
}

// Dense6 is a row-major order-6 tensor of float64 values.
type Dense6 struct {
	n0, n1, n2, n3, n4, n5 int
	data                   []float64
}

// NewDense6 creates an (n0,…,n5) tensor initialized to zeros.
func NewDense6(n0, n1, n2, n3, n4, n5 int) (*Dense6, error) {
	if n0 <= 0 || n1 <= 0 || n2 <= 0 || n3 <= 0 || n4 <= 0 || n5 <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense6{
		n0: n0, n1: n1, n2: n2, n3: n3, n4: n4, n5: n5,
		data: make([]float64, n0*n1*n2*n3*n4*n5),
	}, nil
}

// Dims returns the extents of all six axes.
func (t *Dense6) Dims() (int, int, int, int, int, int) {
	return t.n0, t.n1, t.n2, t.n3, t.n4, t.n5
}

// Data exposes the flat backing slice.
// Layout: index(i,j,k,l,m,n) = ((((i*n1+j)*n2+k)*n3+l)*n4+m)*n5 + n.
func (t *Dense6) Data() []float64 { return t.data }

func (t *Dense6) indexOf(i, j, k, l, m, n int) (int, error) {
	if i < 0 || i >= t.n0 || j < 0 || j >= t.n1 || k < 0 || k >= t.n2 ||
		l < 0 || l >= t.n3 || m < 0 || m >= t.n4 || n < 0 || n >= t.n5 {
		return 0, fmt.Errorf("Dense6(%d,%d,%d,%d,%d,%d): %w", i, j, k, l, m, n, ErrIndexOutOfBounds)
	}

	return ((((i*t.n1+j)*t.n2+k)*t.n3+l)*t.n4+m)*t.n5 + n, nil
}

// At retrieves the element at (i,j,k,l,m,n).
func (t *Dense6) At(i, j, k, l, m, n int) (float64, error) {
	idx, err := t.indexOf(i, j, k, l, m, n)
	if err != nil {
		return 0, err
	}

	return t.data[idx], nil
}

// Set assigns value v at (i,j,k,l,m,n).
func (t *Dense6) Set(i, j, k, l, m, n int, v float64) error {
	idx, err := t.indexOf(i, j, k, l, m, n)
	if err != nil {
		return err
	}
	t.data[idx] = v

	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Dense6) Clone() *Dense6 {
	cp := make([]float64, len(t.data))
	copy(cp, t.data)

	return &Dense6{n0: t.n0, n1: t.n1, n2: t.n2, n3: t.n3, n4: t.n4, n5: t.n5, data: cp}
}

// Add accumulates o into the receiver element-wise.
func (t *Dense6) Add(o *Dense6) error {
	if o == nil || t.n0 != o.n0 || t.n1 != o.n1 || t.n2 != o.n2 ||
		t.n3 != o.n3 || t.n4 != o.n4 || t.n5 != o.n5 {
		return ErrShapeMismatch
	}
	for idx := range t.data {
		t.data[idx] += o.data[idx]
	}

	return nil
}
