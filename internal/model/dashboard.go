package model

type DashboardStats struct {
	TotalProducts    int `db:"total_products" json:"total_products"`
	ActiveProducts   int `db:"active_products" json:"active_products"`
	FeaturedProducts int `db:"featured_products" json:"featured_products"`
	TotalCategories  int `db:"total_categories" json:"total_categories"`
	UsersWithCarts   int `db:"users_with_carts" json:"users_with_carts"`
	LowStockProducts int `db:"low_stock_products" json:"low_stock_products"`
}
