package models

type Category string

const (
	CategoryBasic     Category = "basic"
	CategoryStandard  Category = "standard"
	CategoryPremium   Category = "premium"
	CategoryUnlimited Category = "unlimited"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBasic, CategoryStandard, CategoryPremium, CategoryUnlimited:
		return true
	}
	return false
}

// Package is a catalog entry. It is read-only at runtime.
type Package struct {
	ID          PackageID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Price       int64     `json:"price" yaml:"price"`
	Data        string    `json:"data" yaml:"data"`
	Validity    string    `json:"validity" yaml:"validity"`
	Category    Category  `json:"category" yaml:"category"`
}
