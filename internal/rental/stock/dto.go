package stock

// ===== Requests =====

type UpsertStockRequest struct {
	TotalQty int `json:"total_qty"`
}

// ===== Responses =====

// Available is always derived as total - on_rent; it is never stored.
// on_rent itself is a projection of SUM(issued) - SUM(returned) kept in
// step by the challan and return write transactions.
type StockResponse struct {
	PlateSize string `json:"plate_size"`
	TotalQty  int    `json:"total_qty"`
	OnRent    int    `json:"on_rent"`
	Available int    `json:"available"`
}

type RebuildResponse struct {
	Updated int `json:"updated"`
}
