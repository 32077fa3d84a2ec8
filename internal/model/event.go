package model

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID               uuid.UUID
	ContractID       uuid.UUID
	Name             string
	Attendees        int
	StartAt          time.Time
	EndAt            time.Time
	Location         string
	Notes            string
	SupportContactID *uuid.UUID // nil until a support contact is assigned
	CreatedAt        time.Time
}

func (e Event) Assigned() bool {
	return e.SupportContactID != nil
}

func (e Event) AssignedTo(employeeID uuid.UUID) bool {
	return e.SupportContactID != nil && *e.SupportContactID == employeeID
}
