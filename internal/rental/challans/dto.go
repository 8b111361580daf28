package challans

import "time"

// ===== Requests =====

type ItemInput struct {
	PlateSize string  `json:"plate_size" binding:"required"`
	Quantity  int     `json:"quantity"`
	Note      *string `json:"note,omitempty"`
}

type CreateChallanRequest struct {
	// leave empty to use the suggested next number
	ChallanNumber string `json:"challan_number"`
	ClientID      string `json:"client_id" binding:"required"`
	// "2006-01-02"
	IssueDate string      `json:"issue_date" binding:"required"`
	Items     []ItemInput `json:"items" binding:"required"`
	// required when issuing more plates than are available in stock
	OverrideNote *string `json:"override_note,omitempty"`
}

type UpdateChallanRequest struct {
	ChallanNumber *string `json:"challan_number,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
	IssueDate     *string `json:"issue_date,omitempty"`
	// when present the whole item list is replaced atomically
	Items []ItemInput `json:"items,omitempty"`
}

// ===== Responses =====

type ItemResponse struct {
	PlateSize string  `json:"plate_size"`
	Quantity  int     `json:"quantity"`
	Note      *string `json:"note,omitempty"`
}

type ChallanResponse struct {
	ChallanID     int64          `json:"challan_id"`
	ChallanULID   string         `json:"challan_ulid"`
	ChallanNumber string         `json:"challan_number"`
	ClientID      string         `json:"client_id"`
	IssueDate     time.Time      `json:"issue_date"`
	Status        string         `json:"status"`
	Items         []ItemResponse `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

type NextNumberResponse struct {
	Next string `json:"next"`
}
