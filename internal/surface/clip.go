package surface

type vec struct{ x, y float64 }

// clipPolygon clips a convex polygon to the rectangle [x0,x1]x[y0,y1]
// (Sutherland-Hodgman), so the rasterizer never sees points outside its area.
func clipPolygon(poly []vec, x0, y0, x1, y1 float64) []vec {
	edges := []struct {
		inside func(vec) bool
		cross  func(a, b vec) vec
	}{
		{func(p vec) bool { return p.x >= x0 }, func(a, b vec) vec { return atX(a, b, x0) }},
		{func(p vec) bool { return p.x <= x1 }, func(a, b vec) vec { return atX(a, b, x1) }},
		{func(p vec) bool { return p.y >= y0 }, func(a, b vec) vec { return atY(a, b, y0) }},
		{func(p vec) bool { return p.y <= y1 }, func(a, b vec) vec { return atY(a, b, y1) }},
	}

	out := poly
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]vec, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func atX(a, b vec, x float64) vec {
	t := (x - a.x) / (b.x - a.x)
	return vec{x, a.y + t*(b.y-a.y)}
}

func atY(a, b vec, y float64) vec {
	t := (y - a.y) / (b.y - a.y)
	return vec{a.x + t*(b.x-a.x), y}
}
