// Package lifecycle holds the remittance slip (FRCHQ) state machine shared by
// the console controller and the backend services.
package lifecycle

import (
	"fmt"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// Action is an operator action on a remittance slip.
type Action string

const (
	ActionValidate       Action = "validate"
	ActionDeposit        Action = "deposit"
	ActionClear          Action = "clear"
	ActionDeclareNotPaid Action = "not-paid"
	ActionCancel         Action = "cancel"
	ActionExport         Action = "export"
)

// Label returns the button label for the action.
func (a Action) Label() string {
	switch a {
	case ActionValidate:
		return "Valider"
	case ActionDeposit:
		return "Déposer en banque"
	case ActionClear:
		return "Encaisser"
	case ActionDeclareNotPaid:
		return "Déclarer impayé"
	case ActionCancel:
		return "Annuler"
	case ActionExport:
		return "Exporter"
	default:
		return string(a)
	}
}

// RequiresReason reports whether the action needs a non-empty reason text.
func (a Action) RequiresReason() bool {
	return a == ActionDeclareNotPaid || a == ActionCancel
}

// Mutating reports whether the action changes the slip status.
func (a Action) Mutating() bool {
	return a != ActionExport
}

type edge struct {
	from   domain.RemittanceStatus
	action Action
}

var transitions = map[edge]domain.RemittanceStatus{
	{domain.StatusDraft, ActionValidate}:           domain.StatusSubmitted,
	{domain.StatusSubmitted, ActionDeposit}:        domain.StatusDeposited,
	{domain.StatusDeposited, ActionClear}:          domain.StatusCleared,
	{domain.StatusDeposited, ActionDeclareNotPaid}: domain.StatusNotPaid,
	{domain.StatusDraft, ActionCancel}:             domain.StatusCancelled,
	{domain.StatusSubmitted, ActionCancel}:         domain.StatusCancelled,
	{domain.StatusDeposited, ActionCancel}:         domain.StatusCancelled,
}

// actionOrder fixes the order in which actions are offered.
var actionOrder = []Action{
	ActionValidate,
	ActionDeposit,
	ActionClear,
	ActionDeclareNotPaid,
	ActionCancel,
}

// Known reports whether status is one of the workflow states.
func Known(status domain.RemittanceStatus) bool {
	switch status {
	case domain.StatusDraft, domain.StatusSubmitted, domain.StatusDeposited,
		domain.StatusCleared, domain.StatusNotPaid, domain.StatusCancelled:
		return true
	}
	return false
}

// Next returns the status reached by applying action to from.
func Next(from domain.RemittanceStatus, action Action) (domain.RemittanceStatus, error) {
	to, ok := transitions[edge{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: %s is not allowed from %s", apperrors.ErrInvalidTransition, action, from)
	}
	return to, nil
}

// Allowed reports whether action may be applied in status. Export is
// allowed for every known status.
func Allowed(status domain.RemittanceStatus, action Action) bool {
	if action == ActionExport {
		return Known(status)
	}
	_, ok := transitions[edge{status, action}]
	return ok
}

// AvailableActions lists, from the status alone, the actions an operator may
// be offered. Export is always last.
func AvailableActions(status domain.RemittanceStatus) []Action {
	if !Known(status) {
		return nil
	}
	out := make([]Action, 0, len(actionOrder)+1)
	for _, a := range actionOrder {
		if _, ok := transitions[edge{status, a}]; ok {
			out = append(out, a)
		}
	}
	return append(out, ActionExport)
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status domain.RemittanceStatus) bool {
	switch status {
	case domain.StatusCleared, domain.StatusNotPaid, domain.StatusCancelled:
		return true
	}
	return false
}

// CanEdit reports whether header fields and the cheque selection may change.
func CanEdit(status domain.RemittanceStatus) bool {
	return status == domain.StatusDraft || status == domain.StatusSubmitted
}

// ChequesMutable reports whether the member cheque set may still change.
// Edits in submitted status may touch the header only.
func ChequesMutable(status domain.RemittanceStatus) bool {
	return status == domain.StatusDraft
}
