package domain

import "time"

// Service is an offering owned by exactly one agent.
type Service struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	AgentID     string    `json:"agent_id" bson:"agent_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
