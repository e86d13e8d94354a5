package catalog

// SeedProducts is the demo inventory loaded at startup. The source of this
// data is treated as an external collaborator; swapping it for a file loader
// only needs to produce the same slice.
var SeedProducts = []Product{
	{
		ID:          "LAPTOP001",
		Name:        "HP Pavilion 15",
		Description: "HP Pavilion 15 laptop with Intel Core i5, 8GB RAM and 256GB SSD for everyday work",
		Price:       15999.99,
		Currency:    "MXN",
		Category:    "Electronics",
		Brand:       "HP",
		Stock:       25,
		Rating:      4.5,
		Specifications: map[string]string{
			"processor": "Intel Core i5-11400H",
			"ram":       "8GB DDR4",
			"storage":   "256GB SSD",
			"screen":    "15.6 inch Full HD",
		},
	},
	{
		ID:          "LAPTOP002",
		Name:        "MacBook Air M2",
		Description: "MacBook Air with Apple M2 chip, 8GB unified memory and 256GB SSD",
		Price:       28999.99,
		Currency:    "MXN",
		Category:    "Electronics",
		Brand:       "Apple",
		Stock:       12,
		Rating:      4.8,
		Specifications: map[string]string{
			"processor": "Apple M2",
			"ram":       "8GB unified",
			"storage":   "256GB SSD",
			"screen":    "13.6 inch Liquid Retina",
		},
	},
	{
		ID:          "PHONE001",
		Name:        "iPhone 15 Pro",
		Description: "iPhone 15 Pro with A17 Pro chip, triple camera system and 128GB storage",
		Price:       26999.99,
		Currency:    "MXN",
		Category:    "Electronics",
		Brand:       "Apple",
		Stock:       8,
		Rating:      4.9,
		Specifications: map[string]string{
			"processor": "A17 Pro",
			"storage":   "128GB",
			"camera":    "Triple 48MP camera",
			"screen":    "6.1 inch Super Retina XDR",
		},
	},
	{
		ID:          "MOUSE001",
		Name:        "Logitech MX Master 3",
		Description: "Logitech MX Master 3 wireless productivity mouse",
		Price:       2299.99,
		Currency:    "MXN",
		Category:    "Accessories",
		Brand:       "Logitech",
		Stock:       45,
		Rating:      4.7,
		Specifications: map[string]string{
			"connectivity": "Bluetooth + USB-C",
			"battery":      "70 days",
			"dpi":          "4000 DPI",
			"buttons":      "7 buttons",
		},
	},
	{
		ID:          "TABLET001",
		Name:        "iPad Air",
		Description: "iPad Air with M1 chip, 10.9 inch display, 64GB WiFi",
		Price:       14999.99,
		Currency:    "MXN",
		Category:    "Electronics",
		Brand:       "Apple",
		Stock:       18,
		Rating:      4.6,
		Specifications: map[string]string{
			"processor":    "Apple M1",
			"storage":      "64GB",
			"screen":       "10.9 inch Liquid Retina",
			"connectivity": "WiFi 6",
		},
	},
}
