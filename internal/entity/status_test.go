package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDonationStatusValid(t *testing.T) {
	assert.True(t, DonationAvailable.Valid())
	assert.True(t, DonationRequested.Valid())
	assert.True(t, DonationFulfilled.Valid())
	assert.False(t, DonationStatus("").Valid())
	assert.False(t, DonationStatus("expired").Valid())
}

func TestDonationStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to DonationStatus
		want     bool
	}{
		{DonationAvailable, DonationRequested, true},
		{DonationAvailable, DonationFulfilled, true},
		{DonationRequested, DonationFulfilled, true},
		{DonationRequested, DonationAvailable, false},
		{DonationFulfilled, DonationAvailable, false},
		{DonationFulfilled, DonationRequested, false},
		{DonationAvailable, DonationAvailable, false},
		{DonationAvailable, DonationStatus("expired"), false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRequestStatusLifecycle(t *testing.T) {
	assert.False(t, RequestPending.Terminal())
	assert.True(t, RequestApproved.Terminal())
	assert.True(t, RequestRejected.Terminal())

	assert.True(t, RequestPending.CanTransitionTo(RequestApproved))
	assert.True(t, RequestPending.CanTransitionTo(RequestRejected))

	// Terminal states never move again.
	assert.False(t, RequestApproved.CanTransitionTo(RequestRejected))
	assert.False(t, RequestRejected.CanTransitionTo(RequestApproved))
	assert.False(t, RequestApproved.CanTransitionTo(RequestPending))
	assert.False(t, RequestPending.CanTransitionTo(RequestPending))
}
