// Package shop exercises the source provider.
package shop

import (
	"encoding/json"
	"time"
)

// UserID identifies a customer.
type UserID string

// Base holds fields shared by stored records.
type Base struct {
	ID        UserID    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a customer.
//
// Users are created at checkout.
type User struct {
	Base
	Name     string             `json:"name"`
	Email    *string            `json:"email,omitempty"`
	Tags     []string           `json:"tags"`
	Scores   map[string]float64 `json:"scores"`
	Extra    any                `json:"extra"`
	Raw      json.RawMessage    `json:"raw"`
	Timeout  time.Duration      `json:"timeout"`
	Secret   string             `json:"-"`
	Dash     string             `json:"-,"`
	Active   bool
	internal int
}

// Page is one page of results.
type Page[T any] struct {
	Items []T  `json:"items"`
	Next  *int `json:"next"`
}

// Pair holds a key and a value.
type Pair[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Listing is a page of users.
type Listing struct {
	Users Page[User]         `json:"users"`
	Best  Pair[string, User] `json:"best"`
}

// Point is a pair of coordinates.
//
//pursgen:positional
type Point struct {
	X float64
	Y float64
}

//pursgen:name Identifier
type ID int64

// Shape is a geometric figure.
type Shape interface {
	area() float64
}

// Circle is a round shape.
type Circle struct {
	Center Point
	Radius float64
}

type Square struct {
	Side float64
}

type Nothing struct{}

func (Circle) area() float64  { return 0 }
func (*Square) area() float64 { return 0 }
func (Nothing) area() float64 { return 0 }

//pursgen:skip
type cache struct{}

// Drawing references the other kinds of declarations.
type Drawing struct {
	Shapes  []Shape `json:"shapes"`
	Origin  ID      `json:"origin"`
	Cache   *cache  `json:"cache"`
	Caption struct {
		Text string `json:"text"`
	} `json:"caption"`
}

// Tree is a recursive structure.
type Tree struct {
	Label    string  `json:"label"`
	Children []*Tree `json:"children"`
}

// Stringer is an open interface.
type Stringer interface {
	String() string
}

// Labeled holds an open interface value.
type Labeled struct {
	Label Stringer `json:"label"`
}

// Broken holds an unsupported field.
type Broken struct {
	Ch chan int `json:"ch"`
}
