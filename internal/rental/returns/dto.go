package returns

import "time"

// ===== Requests =====

type ItemInput struct {
	PlateSize  string  `json:"plate_size" binding:"required"`
	Quantity   int     `json:"quantity"`
	DamageNote *string `json:"damage_note,omitempty"`
}

type CreateReturnRequest struct {
	// leave empty to use the suggested next number
	ReturnNumber string `json:"return_number"`
	ClientID     string `json:"client_id" binding:"required"`
	// "2006-01-02"
	ReturnDate string      `json:"return_date" binding:"required"`
	Items      []ItemInput `json:"items" binding:"required"`
}

type UpdateReturnRequest struct {
	ReturnNumber *string `json:"return_number,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
	ReturnDate   *string `json:"return_date,omitempty"`
	// when present the whole item list is replaced atomically
	Items []ItemInput `json:"items,omitempty"`
}

// ===== Responses =====

type ItemResponse struct {
	PlateSize  string  `json:"plate_size"`
	Quantity   int     `json:"quantity"`
	DamageNote *string `json:"damage_note,omitempty"`
}

type ReturnResponse struct {
	ReturnID     int64          `json:"return_id"`
	ReturnULID   string         `json:"return_ulid"`
	ReturnNumber string         `json:"return_number"`
	ClientID     string         `json:"client_id"`
	ReturnDate   time.Time      `json:"return_date"`
	Items        []ItemResponse `json:"items"`
	CreatedAt    time.Time      `json:"created_at"`
}

type NextNumberResponse struct {
	Next string `json:"next"`
}
