package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusRequested, AppointmentStatusUpcoming, true},
		{AppointmentStatusRequested, AppointmentStatusCancelled, true},
		{AppointmentStatusRequested, AppointmentStatusCompleted, false},
		{AppointmentStatusRequested, AppointmentStatusRescheduled, false},
		{AppointmentStatusUpcoming, AppointmentStatusCompleted, true},
		{AppointmentStatusUpcoming, AppointmentStatusCancelled, true},
		{AppointmentStatusUpcoming, AppointmentStatusNoArrival, true},
		{AppointmentStatusUpcoming, AppointmentStatusRescheduled, true},
		{AppointmentStatusUpcoming, AppointmentStatusRequested, false},
		{AppointmentStatusRescheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusRescheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusRescheduled, AppointmentStatusNoArrival, true},
		{AppointmentStatusRescheduled, AppointmentStatusUpcoming, false},
		{AppointmentStatusCompleted, AppointmentStatusUpcoming, false},
		{AppointmentStatusCancelled, AppointmentStatusRequested, false},
		{AppointmentStatusNoArrival, AppointmentStatusUpcoming, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestHoldsSlot(t *testing.T) {
	assert.True(t, AppointmentStatusRequested.HoldsSlot())
	assert.True(t, AppointmentStatusUpcoming.HoldsSlot())
	assert.True(t, AppointmentStatusRescheduled.HoldsSlot())
	assert.False(t, AppointmentStatusCompleted.HoldsSlot())
	assert.False(t, AppointmentStatusCancelled.HoldsSlot())
	assert.False(t, AppointmentStatusNoArrival.HoldsSlot())
}
