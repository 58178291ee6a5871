package storefront

import "fmt"

const (
	msgItemRemoved = "Item removed from your cart."
	msgCartEmpty   = "Your cart is currently empty."
	msgOrderPlaced = "Thank you! Your order is on its way."
)

func msgItemAdded(name string) string {
	return fmt.Sprintf("%s added to your cart.", name)
}

func msgQuantityUpdated(name string) string {
	return fmt.Sprintf("%s quantity updated.", name)
}
