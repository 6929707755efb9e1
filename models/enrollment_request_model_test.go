package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitionsAreAppendOnly(t *testing.T) {
	allowed := []struct{ from, to string }{
		{RequestStatusReserved, RequestStatusPending},
		{RequestStatusReserved, RequestStatusRejected},
		{RequestStatusPending, RequestStatusAccepted},
		{RequestStatusPending, RequestStatusRejected},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransitionStatus(tr.from, tr.to), "%s -> %s should be legal", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{RequestStatusRejected, RequestStatusPending},
		{RequestStatusRejected, RequestStatusAccepted},
		{RequestStatusAccepted, RequestStatusPending},
		{RequestStatusAccepted, RequestStatusReserved},
		{RequestStatusPending, RequestStatusReserved},
		{RequestStatusReserved, RequestStatusAccepted},
	}
	for _, tr := range denied {
		assert.False(t, CanTransitionStatus(tr.from, tr.to), "%s -> %s must be blocked", tr.from, tr.to)
	}
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []string{RequestStatusReserved, RequestStatusPending, RequestStatusAccepted, RequestStatusRejected} {
		assert.True(t, ValidRequestStatus(s))
	}
	assert.False(t, ValidRequestStatus("cancelled"))
	assert.False(t, ValidRequestStatus(""))
}
