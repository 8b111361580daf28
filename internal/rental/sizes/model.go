package sizes

type CreateSizeRequest struct {
	Label     string `json:"label" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateSizeRequest struct {
	Label      string `json:"label" binding:"required"`
	SortOrder  int    `json:"sort_order"`
	IsDisabled bool   `json:"is_disabled"`
}

// PlateSize is a catalog entry; disabled sizes stay for history but are
// hidden from new-challan dropdowns.
type PlateSize struct {
	SizeID     uint   `json:"id"`
	Label      string `json:"label"`
	SortOrder  int    `json:"sort_order"`
	IsDisabled bool   `json:"is_disabled"`
}
