package models

import "time"

type AuditLog struct {
	ID           int                    `json:"id"`
	ResourceID   int                    `json:"resource_id"`
	ResourceType string                 `json:"resource_type"`
	Action       string                 `json:"action"` // create, update or delete
	Data         map[string]interface{} `json:"data,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UserID       *int                   `json:"user_id,omitempty"`
}

func (r *AssetReceipt) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "asset_receipt",
	}
}
