package models

// TagCount is a tag name with the number of entries carrying it
type TagCount struct {
	Name  string
	Count int
}

// WeightedTag is a tag with its normalized visual weight in [0,1]
type WeightedTag struct {
	Name   string
	Weight float64
}
