package model

import (
	"time"

	"github.com/google/uuid"
)

type Contract struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	SalesContactID  uuid.UUID // copied from the client at creation
	TotalAmount     float64
	RemainingAmount float64
	Signed          bool
	CreatedAt       time.Time
}
