package domain

import "time"

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

// ValidTicketStatus reports whether s is a member of the ticket status enum.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// TicketPriority orders support tickets for triage.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// ValidTicketPriority reports whether p is a member of the priority enum.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TicketComment is a single reply on a support ticket.
type TicketComment struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Ticket is a support request raised by a user.
type Ticket struct {
	ID         string          `json:"id" bson:"_id,omitempty"`
	UserID     string          `json:"user_id" bson:"user_id"`
	Subject    string          `json:"subject" bson:"subject"`
	Message    string          `json:"message" bson:"message"`
	Category   string          `json:"category" bson:"category"`
	Priority   TicketPriority  `json:"priority" bson:"priority"`
	Status     TicketStatus    `json:"status" bson:"status"`
	AssigneeID string          `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	Comments   []TicketComment `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" bson:"updated_at"`
}
