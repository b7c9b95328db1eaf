package models

// Category es la categoría fija de un producto del catálogo.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryClothing       Category = "Clothing"
	CategoryShoes          Category = "Shoes"
	CategoryAccessories    Category = "Accessories"
	CategoryHomeKitchen    Category = "Home & Kitchen"
	CategorySportsOutdoors Category = "Sports & Outdoors"
	CategoryBooks          Category = "Books"
	CategoryToysGames      Category = "Toys & Games"
	CategoryBeautyPersonal Category = "Beauty & Personal Care"
	CategoryAutomotive     Category = "Automotive"
	CategoryOther          Category = "Other"
)

var validCategories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryShoes,
	CategoryAccessories,
	CategoryHomeKitchen,
	CategorySportsOutdoors,
	CategoryBooks,
	CategoryToysGames,
	CategoryBeautyPersonal,
	CategoryAutomotive,
	CategoryOther,
}

func (c Category) IsValid() bool { return contains(validCategories, c) }

// Categories devuelve una copia de las categorías válidas, en orden de declaración.
func Categories() []Category { return append([]Category(nil), validCategories...) }

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"
)

var validCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyJPY}

func (c Currency) IsValid() bool { return contains(validCurrencies, c) }

type Status string

const (
	StatusActive       Status = "Active"
	StatusInactive     Status = "Inactive"
	StatusDiscontinued Status = "Discontinued"
	StatusOutOfStock   Status = "Out of Stock"
)

var validStatuses = []Status{StatusActive, StatusInactive, StatusDiscontinued, StatusOutOfStock}

func (s Status) IsValid() bool { return contains(validStatuses, s) }

func Statuses() []Status { return append([]Status(nil), validStatuses...) }

type Size string

const (
	SizeXS      Size = "XS"
	SizeS       Size = "S"
	SizeM       Size = "M"
	SizeL       Size = "L"
	SizeXL      Size = "XL"
	SizeXXL     Size = "XXL"
	SizeOneSize Size = "One Size"
	SizeCustom  Size = "Custom"
)

var validSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeOneSize, SizeCustom}

func (s Size) IsValid() bool { return contains(validSizes, s) }

func Sizes() []Size { return append([]Size(nil), validSizes...) }

type WeightUnit string

const (
	WeightUnitGram     WeightUnit = "g"
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitPound    WeightUnit = "lb"
	WeightUnitOunce    WeightUnit = "oz"
)

var validWeightUnits = []WeightUnit{WeightUnitGram, WeightUnitKilogram, WeightUnitPound, WeightUnitOunce}

func (u WeightUnit) IsValid() bool { return contains(validWeightUnits, u) }

type DimensionUnit string

const (
	DimensionUnitCentimeter DimensionUnit = "cm"
	DimensionUnitMeter      DimensionUnit = "m"
	DimensionUnitInch       DimensionUnit = "in"
	DimensionUnitFoot       DimensionUnit = "ft"
)

var validDimensionUnits = []DimensionUnit{
	DimensionUnitCentimeter,
	DimensionUnitMeter,
	DimensionUnitInch,
	DimensionUnitFoot,
}

func (u DimensionUnit) IsValid() bool { return contains(validDimensionUnits, u) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
