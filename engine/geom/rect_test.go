package geom

import "testing"

func TestRect_Contains(t *testing.T) {
	type tc struct {
		r    Rect
		p    Point
		want bool
	}

	tests := map[string]tc{
		"inside":                {r: NewRect(10, 10, 100, 50), p: Pt(50, 30), want: true},
		"top-left corner":       {r: NewRect(10, 10, 100, 50), p: Pt(10, 10), want: true},
		"right edge exclusive":  {r: NewRect(10, 10, 100, 50), p: Pt(110, 30), want: false},
		"bottom edge exclusive": {r: NewRect(10, 10, 100, 50), p: Pt(50, 60), want: false},
		"outside left":          {r: NewRect(10, 10, 100, 50), p: Pt(5, 30), want: false},
		"zero rect":             {r: Rect{}, p: Pt(0, 0), want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	type tc struct {
		a, b Rect
		want Rect
	}

	tests := map[string]tc{
		"disjoint": {
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(20, 20, 10, 10),
			want: NewRect(0, 0, 30, 30),
		},
		"empty is identity left": {
			a:    Rect{},
			b:    NewRect(5, 5, 10, 10),
			want: NewRect(5, 5, 10, 10),
		},
		"empty is identity right": {
			a:    NewRect(5, 5, 10, 10),
			b:    Rect{},
			want: NewRect(5, 5, 10, 10),
		},
		"contained": {
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(10, 10, 20, 20),
			want: NewRect(0, 0, 100, 100),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRect_Intersect(t *testing.T) {
	a := NewRect(0, 0, 50, 50)
	b := NewRect(25, 25, 50, 50)

	got := a.Intersect(b)
	want := NewRect(25, 25, 25, 25)
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}

	if !a.Intersects(b) {
		t.Error("Intersects = false, want true")
	}

	c := NewRect(100, 100, 10, 10)
	if a.Intersects(c) {
		t.Error("disjoint rects reported as intersecting")
	}
	if r := a.Intersect(c); !r.Empty() {
		t.Errorf("Intersect of disjoint rects = %+v, want empty", r)
	}
}

func TestRect_Inset(t *testing.T) {
	r := NewRect(0, 0, 100, 80).Inset(Insets{L: 10, T: 5, R: 10, B: 5})
	want := NewRect(10, 5, 80, 70)
	if r != want {
		t.Errorf("Inset = %+v, want %+v", r, want)
	}

	// Insets larger than the rect clamp to zero size, not negative.
	tiny := NewRect(0, 0, 10, 10).Inset(InsetsAll(20))
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("over-inset rect = %+v, want zero size", tiny)
	}
}

func TestRect_ContainsRect(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	if !outer.ContainsRect(NewRect(10, 10, 50, 50)) {
		t.Error("inner rect not contained")
	}
	if outer.ContainsRect(NewRect(60, 60, 50, 50)) {
		t.Error("overflowing rect reported contained")
	}
	if !outer.ContainsRect(Rect{}) {
		t.Error("empty rect should be contained anywhere")
	}
}
