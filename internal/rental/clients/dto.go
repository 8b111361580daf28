package clients

import "time"

// ===== Requests =====

type CreateClientRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Site     string `json:"site"`
	Mobile   string `json:"mobile"`
}

type UpdateClientRequest struct {
	Name   *string `json:"name,omitempty"`
	Site   *string `json:"site,omitempty"`
	Mobile *string `json:"mobile,omitempty"`
}

// ===== Responses =====

type ClientResponse struct {
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Site      string    `json:"site"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"created_at"`
}
