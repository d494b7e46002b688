package investor

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Investor struct {
	Id        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Input struct {
	Name  string
	Phone string
	Email string
	Note  string
}
