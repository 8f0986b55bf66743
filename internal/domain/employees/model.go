package employees

import (
	"strings"
	"time"
)

type WorkerType string

const (
	Nombrado    WorkerType = "NOMBRADO"
	CAS         WorkerType = "CAS"
	Locador     WorkerType = "LOCADOR"
	Practicante WorkerType = "PRACTICANTE"
)

// CanBeResponsible reports whether this worker type may hold formal
// responsibility for an asset. Custody (assignment) is open to all types.
func (w WorkerType) CanBeResponsible() bool {
	return w == Nombrado || w == CAS
}

func (w WorkerType) Valid() bool {
	switch w {
	case Nombrado, CAS, Locador, Practicante:
		return true
	}
	return false
}

type Employee struct {
	ID         int64
	DNI        string
	FirstName  string
	LastName   string
	WorkerType WorkerType
	Email      string
	Phone      string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
