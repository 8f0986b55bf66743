package assets

import (
	"context"
	"fmt"

	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/errs"
)

// IdentifierKind names one of the asset identifier fields a category policy
// can demand.
type IdentifierKind string

const (
	IdentifierControlPatrimonial IdentifierKind = "control_patrimonial"
	IdentifierInternalTag        IdentifierKind = "asset_tag_internal"
)

// IdentifierPolicy maps a category name to the identifier kinds that category
// requires. New categories are policy data, not validator branches.
type IdentifierPolicy map[string][]IdentifierKind

// DefaultIdentifierPolicy is the institutional rule set: audiovisual and
// climate equipment is government-property tracked, small peripherals carry
// internal tags.
func DefaultIdentifierPolicy() IdentifierPolicy {
	return IdentifierPolicy{
		"Teleconference":         {IdentifierControlPatrimonial},
		"Projector":              {IdentifierControlPatrimonial},
		"Interactive Whiteboard": {IdentifierControlPatrimonial},
		"Air Conditioner":        {IdentifierControlPatrimonial},
		"Biometric Clock":        {IdentifierControlPatrimonial},
		"Tablet":                 {IdentifierControlPatrimonial},
		"Sound Console":          {IdentifierControlPatrimonial},

		"Webcam":     {IdentifierInternalTag},
		"Headphones": {IdentifierInternalTag},
		"Microphone": {IdentifierInternalTag},
		"PC Speaker": {IdentifierInternalTag},
	}
}

// CategoryNamer resolves a category id to its name; empty when unknown.
type CategoryNamer interface {
	CategoryName(ctx context.Context, id int64) (string, error)
}

// EmployeeDirectory resolves an employee to its worker type; ok=false when
// the employee does not exist.
type EmployeeDirectory interface {
	WorkerTypeOf(ctx context.Context, id int64) (employees.WorkerType, bool, error)
}

// Validator checks a candidate asset against the cross-field rules. It never
// mutates state; callers run it before every create and update.
type Validator struct {
	policy     IdentifierPolicy
	categories CategoryNamer
	employees  EmployeeDirectory
}

func NewValidator(policy IdentifierPolicy, categories CategoryNamer, employees EmployeeDirectory) *Validator {
	if policy == nil {
		policy = DefaultIdentifierPolicy()
	}
	return &Validator{policy: policy, categories: categories, employees: employees}
}

// Validate evaluates every rule independently and reports all violations.
// Returns nil when the candidate is well-formed, errs.FieldErrors otherwise.
func (v *Validator) Validate(ctx context.Context, a *Asset) error {
	fe := errs.FieldErrors{}

	if a.ControlPatrimonial == "" && a.AssetTagInternal == "" {
		fe["asset_tag_internal"] = "At least one identifier is required (control patrimonial or internal tag)."
	}

	if a.ControlPatrimonial != "" && a.AcquisitionDate == nil {
		fe["acquisition_date"] = "Acquisition date is required when control patrimonial is set."
	}

	if a.OwnershipType == OwnershipProvider {
		if a.ProviderName == "" {
			fe["provider_name"] = "Provider name is required for provider-owned assets."
		}
		if a.ControlPatrimonial != "" {
			fe["control_patrimonial"] = "Provider-owned assets cannot have control patrimonial."
		}
	}

	if a.ResponsibleEmployeeID == 0 {
		fe["responsible_employee"] = "Responsible employee is required."
	} else {
		wt, ok, err := v.employees.WorkerTypeOf(ctx, a.ResponsibleEmployeeID)
		if err != nil {
			return err
		}
		if !ok {
			fe["responsible_employee"] = "Responsible employee is required."
		} else if !wt.CanBeResponsible() {
			fe["responsible_employee"] = "Responsible employee must be NOMBRADO or CAS."
		}
	}

	if a.CategoryID != 0 {
		name, err := v.categories.CategoryName(ctx, a.CategoryID)
		if err != nil {
			return err
		}
		for _, kind := range v.policy[name] {
			switch kind {
			case IdentifierControlPatrimonial:
				if a.ControlPatrimonial == "" {
					fe["control_patrimonial"] = fmt.Sprintf("%s requires control patrimonial.", name)
				}
			case IdentifierInternalTag:
				if a.AssetTagInternal == "" {
					fe["asset_tag_internal"] = fmt.Sprintf("%s requires internal code (asset_tag_internal).", name)
				}
			}
		}
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}
