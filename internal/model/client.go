package model

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	Phone          string
	CompanyName    string
	SalesContactID uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
