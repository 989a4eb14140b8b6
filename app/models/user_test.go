package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("student@example.com", "correct-horse")
	assert.NoError(t, err)
	assert.Equal(t, "student@example.com", user.Email)
	assert.Equal(t, SubscriptionInactive, user.SubscriptionStatus)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct-horse"))
	assert.False(t, user.CheckPassword("wrong-horse"))
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	_, err := CreateUser("not-an-email", "correct-horse")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("first"))
	firstHash := user.PasswordHash
	assert.NoError(t, user.SetPassword("second"))
	assert.NotEqual(t, firstHash, user.PasswordHash)
	assert.True(t, user.CheckPassword("second"))
	assert.False(t, user.CheckPassword("first"))
}

func TestHasActiveSubscription(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name   string
		status string
		end    *time.Time
		want   bool
	}{
		{name: "inactive", status: SubscriptionInactive, end: &future, want: false},
		{name: "active with future end", status: SubscriptionActive, end: &future, want: true},
		{name: "active with past end", status: SubscriptionActive, end: &past, want: false},
		{name: "active without end date", status: SubscriptionActive, end: nil, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{SubscriptionStatus: tc.status, SubscriptionEndDate: tc.end}
			assert.Equal(t, tc.want, u.HasActiveSubscription(now))
		})
	}
}
