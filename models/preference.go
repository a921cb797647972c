package models

import (
	"time"
)

type Preference struct {
	ID        int `sql:",table:preferences"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Data      string
}
