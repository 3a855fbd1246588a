// Package geom packs plane-geometry values as fixed-arity MessagePack arrays.
//
// Every type is an array of float64 fields in a fixed order. Decoding requires
// the array header to declare exactly that many fields and fails with
// mpack.ErrShape otherwise.
package geom

import "github.com/oy3o/mpack"

// Point packs as [x, y].
type Point struct {
	X, Y float64
}

// Size packs as [width, height].
type Size struct {
	Width, Height float64
}

// Vector packs as [dx, dy].
type Vector struct {
	DX, DY float64
}

// Rect packs as [x, y, width, height].
type Rect struct {
	Origin Point
	Size   Size
}

// Transform is an affine transform packed as [a, b, c, d, tx, ty].
type Transform struct {
	A, B, C, D, TX, TY float64
}

// Identity is the transform that maps every point to itself.
var Identity = Transform{A: 1, D: 1}

func (p Point) Pack(w *mpack.Writer)  { pack(w, p.X, p.Y) }
func (s Size) Pack(w *mpack.Writer)   { pack(w, s.Width, s.Height) }
func (v Vector) Pack(w *mpack.Writer) { pack(w, v.DX, v.DY) }

func (r Rect) Pack(w *mpack.Writer) {
	pack(w, r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

func (t Transform) Pack(w *mpack.Writer) {
	pack(w, t.A, t.B, t.C, t.D, t.TX, t.TY)
}

func (p *Point) Unpack(r *mpack.Reader) error {
	var f [2]float64
	if err := unpack(r, f[:]); err != nil {
		return mpack.Decoding("geom.Point", err)
	}
	p.X, p.Y = f[0], f[1]
	return nil
}

func (s *Size) Unpack(r *mpack.Reader) error {
	var f [2]float64
	if err := unpack(r, f[:]); err != nil {
		return mpack.Decoding("geom.Size", err)
	}
	s.Width, s.Height = f[0], f[1]
	return nil
}

func (v *Vector) Unpack(r *mpack.Reader) error {
	var f [2]float64
	if err := unpack(r, f[:]); err != nil {
		return mpack.Decoding("geom.Vector", err)
	}
	v.DX, v.DY = f[0], f[1]
	return nil
}

func (rc *Rect) Unpack(r *mpack.Reader) error {
	var f [4]float64
	if err := unpack(r, f[:]); err != nil {
		return mpack.Decoding("geom.Rect", err)
	}
	rc.Origin = Point{X: f[0], Y: f[1]}
	rc.Size = Size{Width: f[2], Height: f[3]}
	return nil
}

func (t *Transform) Unpack(r *mpack.Reader) error {
	var f [6]float64
	if err := unpack(r, f[:]); err != nil {
		return mpack.Decoding("geom.Transform", err)
	}
	*t = Transform{A: f[0], B: f[1], C: f[2], D: f[3], TX: f[4], TY: f[5]}
	return nil
}

// Apply maps p through t.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.TX,
		Y: t.B*p.X + t.D*p.Y + t.TY,
	}
}

func pack(w *mpack.Writer, fields ...float64) {
	w.PackArrayHeader(len(fields))
	for _, f := range fields {
		w.PackFloat64(f)
	}
}

// unpack fills dst from an array that must hold exactly len(dst) numbers.
// dst is only meaningful when it returns nil.
func unpack(r *mpack.Reader, dst []float64) error {
	if err := r.ExpectArrayHeader(len(dst)); err != nil {
		return err
	}
	for i := range dst {
		v, err := r.UnpackFloat64()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
