package spatial

import (
	"testing"

	"github.com/san-kum/aglogen/internal/geom"
)

func TestGridNeighbors(t *testing.T) {
	g := NewGrid(2.0)

	s1 := geom.NewSphere(geom.Zero(), 1)
	s2 := geom.NewSphere(geom.V(1.5, 0, 0), 1)
	s3 := geom.NewSphere(geom.V(10, 0, 0), 1)

	g.Insert(0, s1)
	g.Insert(1, s2)
	g.Insert(2, s3)

	got := g.Neighbors(s1, nil)

	want := map[int]bool{0: true, 1: true}
	for _, idx := range got {
		if idx == 2 {
			t.Error("far sphere returned as neighbor")
		}
		delete(want, idx)
	}
	if len(want) > 0 {
		t.Errorf("missing neighbors: %v", want)
	}
}

func TestGridNegativeCoordinates(t *testing.T) {
	g := NewGrid(4.0)

	a := geom.NewSphere(geom.V(-0.5, -0.5, -0.5), 1)
	b := geom.NewSphere(geom.V(0.5, 0.5, 0.5), 1)
	g.Insert(0, a)

	found := false
	for _, idx := range g.Neighbors(b, nil) {
		if idx == 0 {
			found = true
		}
	}
	if !found {
		t.Error("neighbor across the origin cell boundary not found")
	}
}

func TestGridLen(t *testing.T) {
	g := NewGrid(1.0)
	for i := 0; i < 5; i++ {
		g.Insert(i, geom.NewSphere(geom.V(float64(i)*3, 0, 0), 0.5))
	}
	if g.Len() != 5 {
		t.Errorf("expected 5 indexed spheres, got %d", g.Len())
	}
}

func TestGridBufferReuse(t *testing.T) {
	g := NewGrid(2.0)
	s := geom.NewSphere(geom.Zero(), 1)
	g.Insert(0, s)

	buf := make([]int, 0, 8)
	buf = g.Neighbors(s, buf[:0])
	if len(buf) != 1 || buf[0] != 0 {
		t.Errorf("unexpected query result: %v", buf)
	}
}
