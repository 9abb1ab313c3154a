package lifecycle_test

import (
	"testing"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/core/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []domain.RemittanceStatus{
	domain.StatusDraft,
	domain.StatusSubmitted,
	domain.StatusDeposited,
	domain.StatusCleared,
	domain.StatusNotPaid,
	domain.StatusCancelled,
}

var mutatingActions = []lifecycle.Action{
	lifecycle.ActionValidate,
	lifecycle.ActionDeposit,
	lifecycle.ActionClear,
	lifecycle.ActionDeclareNotPaid,
	lifecycle.ActionCancel,
}

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.RemittanceStatus
		action lifecycle.Action
		want   domain.RemittanceStatus
	}{
		{"validate draft", domain.StatusDraft, lifecycle.ActionValidate, domain.StatusSubmitted},
		{"deposit submitted", domain.StatusSubmitted, lifecycle.ActionDeposit, domain.StatusDeposited},
		{"clear deposited", domain.StatusDeposited, lifecycle.ActionClear, domain.StatusCleared},
		{"not paid deposited", domain.StatusDeposited, lifecycle.ActionDeclareNotPaid, domain.StatusNotPaid},
		{"cancel draft", domain.StatusDraft, lifecycle.ActionCancel, domain.StatusCancelled},
		{"cancel submitted", domain.StatusSubmitted, lifecycle.ActionCancel, domain.StatusCancelled},
		{"cancel deposited", domain.StatusDeposited, lifecycle.ActionCancel, domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lifecycle.Next(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.RemittanceStatus
		action lifecycle.Action
	}{
		{"validate submitted", domain.StatusSubmitted, lifecycle.ActionValidate},
		{"deposit draft", domain.StatusDraft, lifecycle.ActionDeposit},
		{"clear submitted", domain.StatusSubmitted, lifecycle.ActionClear},
		{"not paid submitted", domain.StatusSubmitted, lifecycle.ActionDeclareNotPaid},
		{"cancel cleared", domain.StatusCleared, lifecycle.ActionCancel},
		{"cancel not paid", domain.StatusNotPaid, lifecycle.ActionCancel},
		{"cancel cancelled", domain.StatusCancelled, lifecycle.ActionCancel},
		{"export is not a transition", domain.StatusDraft, lifecycle.ActionExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lifecycle.Next(tt.from, tt.action)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		status domain.RemittanceStatus
		want   []lifecycle.Action
	}{
		{domain.StatusDraft, []lifecycle.Action{lifecycle.ActionValidate, lifecycle.ActionCancel, lifecycle.ActionExport}},
		{domain.StatusSubmitted, []lifecycle.Action{lifecycle.ActionDeposit, lifecycle.ActionCancel, lifecycle.ActionExport}},
		{domain.StatusDeposited, []lifecycle.Action{lifecycle.ActionClear, lifecycle.ActionDeclareNotPaid, lifecycle.ActionCancel, lifecycle.ActionExport}},
		{domain.StatusCleared, []lifecycle.Action{lifecycle.ActionExport}},
		{domain.StatusNotPaid, []lifecycle.Action{lifecycle.ActionExport}},
		{domain.StatusCancelled, []lifecycle.Action{lifecycle.ActionExport}},
		{domain.RemittanceStatus("bogus"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.AvailableActions(tt.status))
		})
	}
}

// Offered actions and legal transitions must agree for every pair.
func TestAvailableActions_MatchTransitionTable(t *testing.T) {
	for _, s := range allStatuses {
		offered := lifecycle.AvailableActions(s)
		for _, a := range mutatingActions {
			_, err := lifecycle.Next(s, a)
			assert.Equal(t, err == nil, contains(offered, a), "status=%s action=%s", s, a)
			assert.Equal(t, err == nil, lifecycle.Allowed(s, a), "status=%s action=%s", s, a)
		}
	}
}

func TestTerminalAndEditable(t *testing.T) {
	for _, s := range allStatuses {
		t.Run(string(s), func(t *testing.T) {
			terminal := s == domain.StatusCleared || s == domain.StatusNotPaid || s == domain.StatusCancelled
			assert.Equal(t, terminal, lifecycle.IsTerminal(s))
			assert.Equal(t, s == domain.StatusDraft || s == domain.StatusSubmitted, lifecycle.CanEdit(s))
			assert.Equal(t, s == domain.StatusDraft, lifecycle.ChequesMutable(s))
		})
	}
}

func TestActionFlags(t *testing.T) {
	assert.True(t, lifecycle.ActionCancel.RequiresReason())
	assert.True(t, lifecycle.ActionDeclareNotPaid.RequiresReason())
	assert.False(t, lifecycle.ActionValidate.RequiresReason())
	assert.False(t, lifecycle.ActionExport.Mutating())
	assert.True(t, lifecycle.ActionDeposit.Mutating())
}

func contains(actions []lifecycle.Action, a lifecycle.Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
