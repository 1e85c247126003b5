// Package variants references a sealed interface variant directly.
package variants

// Shape is a geometric figure.
type Shape interface {
	isShape()
}

type Circle struct {
	Radius float64
}

type Square struct {
	Side float64
}

func (Circle) isShape() {}
func (Square) isShape() {}

// Drawing holds its main circle outside of the Shape union.
type Drawing struct {
	Shapes []Shape `json:"shapes"`
	Main   Circle  `json:"main"`
}
