package geo

// Point is an integer position in city-plan coordinates. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}
