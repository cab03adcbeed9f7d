package repo

type ProductFilter struct {
	UserID   string
	Name     string
	Category string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	MinQty   *int
	MaxQty   *int
	Offset   *int
	Limit    *int
}
