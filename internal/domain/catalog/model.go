package catalog

import "time"

type Category struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Location struct {
	ID        int64
	Site      string
	Floor     string
	Type      string
	ExactName string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AssignmentReason struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
