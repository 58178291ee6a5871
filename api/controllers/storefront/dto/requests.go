package storefrontdto

import "github.com/shopspring/decimal"

// AddItemRequest adds either a catalog product by id or an explicit name/price/image triple.
type AddItemRequest struct {
	ProductID int              `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Name      string           `json:"name,omitempty" validate:"required_without=ProductID,max=200"`
	Price     *decimal.Decimal `json:"price,omitempty" validate:"required_without=ProductID"`
	Image     string           `json:"image,omitempty" validate:"required_without=ProductID,max=500"`
}

type RemoveItemRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type AdjustQuantityRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Delta int    `json:"delta" validate:"ne=0,min=-1000,max=1000"`
}

// DrawerRequest forces the drawer open or closed; a missing Open toggles it.
type DrawerRequest struct {
	Open *bool `json:"open,omitempty"`
}
