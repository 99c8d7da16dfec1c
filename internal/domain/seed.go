package domain

// Default records installed on first run, shared by the storage
// adapters so a fresh deployment is immediately usable.

func DefaultUsers() []User {
	return []User{
		{ID: "u-admin", Name: "Canteen Admin", Email: "admin@canteen.com", Password: "admin123", Role: RoleAdmin},
		{ID: "u-vendor", Name: "Stock Vendor", Email: "vendor@canteen.com", Password: "vendor123", Role: RoleVendor},
		{ID: "u-student", Name: "Demo Student", Email: "student@canteen.com", Password: "student123", Role: RoleStudent},
	}
}

func DefaultMenu() []MenuItem {
	return []MenuItem{
		{ID: "m1", Name: "Veg Sandwich", Category: "Snacks", Price: 40, PrepTime: 8, Stock: 25, Available: true},
		{ID: "m2", Name: "Paneer Wrap", Category: "Wraps", Price: 75, PrepTime: 12, Stock: 18, Available: true},
		{ID: "m3", Name: "Masala Dosa", Category: "Meals", Price: 60, PrepTime: 10, Stock: 20, Available: true},
		{ID: "m4", Name: "Lemon Soda", Category: "Beverages", Price: 25, PrepTime: 3, Stock: 40, Available: true},
		{ID: "m5", Name: "Fruit Bowl", Category: "Healthy", Price: 50, PrepTime: 5, Stock: 12, Available: true},
	}
}
