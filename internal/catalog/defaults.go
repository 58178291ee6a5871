package catalog

import "github.com/shopspring/decimal"

// Default returns the built-in bag collection.
func Default() *Catalog {
	c, err := New([]Item{
		{
			ID:          1,
			Name:        "Vintage Leather Backpack",
			Price:       decimal.RequireFromString("129.99"),
			Image:       "images/bag8.jpg",
			Description: "Classic vintage-style leather backpack perfect for daily use",
			Badge:       "Bestseller",
		},
		{
			ID:          2,
			Name:        "Premium Messenger Bag",
			Price:       decimal.RequireFromString("159.99"),
			Image:       "images/bag1.jpg",
			Description: "Professional messenger bag for business and casual use",
			Badge:       "Limited",
		},
		{
			ID:          3,
			Name:        "Luxury Tote Bag",
			Price:       decimal.RequireFromString("189.99"),
			Image:       "images/bag2.jpg",
			Description: "Spacious tote bag with premium leather finish",
			Badge:       "Editor’s pick",
		},
		{
			ID:          4,
			Name:        "Travel Duffel Bag",
			Price:       decimal.RequireFromString("199.99"),
			Image:       "images/bag3.webp",
			Description: "Perfect companion for weekend getaways",
			Badge:       "Weekender",
		},
		{
			ID:          5,
			Name:        "Mini Crossbody Bag",
			Price:       decimal.RequireFromString("89.99"),
			Image:       "images/bag7.jpg",
			Description: "Compact and stylish crossbody bag for essentials",
			Badge:       "Compact",
		},
		{
			ID:          6,
			Name:        "Business Briefcase",
			Price:       decimal.RequireFromString("249.99"),
			Image:       "images/bag6.webp",
			Description: "Executive leather briefcase for professionals",
			Badge:       "New",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
