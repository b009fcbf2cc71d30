package models

import "time"

// ClientState is one persisted state blob keyed by its storage key.
type ClientState struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (ClientState) TableName() string {
	return "client_state"
}
