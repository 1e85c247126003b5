// Package fruits declares the types of a fruit market.
package fruits

// Currency is how a fruit is paid for.
type Currency int

const (
	Coins Currency = iota
	Credits
	Abolished
)

// Color is the color of a fruit with its intensity.
type Color interface {
	isColor()
}

type Red int

type Green int

type Blue []int

func (Red) isColor()   {}
func (Green) isColor() {}
func (Blue) isColor()  {}

// Fruit is sold at the market.
type Fruit struct {
	Color    Color `json:"color"`
	Price    int
	Currency Currency `json:"currency,omitempty"`
}
