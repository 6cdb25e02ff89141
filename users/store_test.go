package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pharmalink/go-pharmacy-client/users"
)

func TestStoreLifecycle(t *testing.T) {
	store := users.NewStore()

	_, loaded := store.Get()
	require.False(t, loaded)

	store.Set(users.Profile{ID: "user-1", Role: users.RoleSupplier})
	profile, loaded := store.Get()
	require.True(t, loaded)
	require.Equal(t, "user-1", profile.ID)

	store.Reset()
	profile, loaded = store.Get()
	require.False(t, loaded)
	require.Equal(t, users.Profile{}, profile, "reset returns to the initial empty state")

	// Resetting an empty store is safe.
	store.Reset()
}

func TestSectionPath(t *testing.T) {
	tests := []struct {
		role users.RoleType
		want string
	}{
		{users.RoleRetailer, "/retailer"},
		{users.RoleSupplier, "/supplier"},
		{users.RoleAdmin, "/admin"},
		{users.RoleType(""), "/retailer"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.role.SectionPath())
	}
}
