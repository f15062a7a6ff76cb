package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/domain/access"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

type unowned struct {
	Title string
}

func TestCheck(t *testing.T) {
	alice := access.Caller{UserID: "alice", Roles: []entities.Role{entities.RoleUser}}
	admin := access.Caller{UserID: "root", Roles: []entities.Role{entities.RoleUser, entities.RoleAdmin}}

	aliceUser := &entities.User{ID: "alice"}
	bobUser := &entities.User{ID: "bob"}
	bobStats := entities.StatisticsList{{ID: "s1", UserID: "bob"}, {ID: "s2", UserID: "alice"}}
	aliceStats := entities.StatisticsList{{ID: "s3", UserID: "alice"}}

	tests := []struct {
		name      string
		caller    access.Caller
		result    any
		wantErr   error
		notFound  bool
		forbidden bool
	}{
		{name: "own user record", caller: alice, result: aliceUser},
		{name: "foreign user record", caller: alice, result: bobUser, forbidden: true},
		{name: "admin on foreign record", caller: admin, result: bobUser},
		{name: "own statistics list", caller: alice, result: aliceStats},
		{name: "list owned by first element", caller: alice, result: bobStats, forbidden: true},
		{name: "admin on foreign list", caller: admin, result: bobStats},
		{name: "no owner reference", caller: alice, result: unowned{Title: "x"}},
		{name: "nil result", caller: alice, result: nil, notFound: true},
		{name: "nil pointer", caller: admin, result: (*entities.User)(nil), notFound: true},
		{name: "empty list", caller: admin, result: entities.StatisticsList{}, notFound: true},
		{name: "empty slice", caller: alice, result: []*entities.User{}, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.Check(tt.caller, tt.result, "User")

			switch {
			case tt.notFound:
				require.ErrorIs(t, err, services.ErrNotFound)
				var nf *services.NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "User", nf.Resource)
			case tt.forbidden:
				assert.ErrorIs(t, err, services.ErrForbidden)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	caller := access.Caller{UserID: "alice"}

	d := access.Decide(caller, &entities.User{ID: "bob"})
	assert.False(t, d.Allowed)
	assert.Equal(t, access.ReasonOwnerMismatch, d.Reason)
	assert.Equal(t, "bob", d.OwnerID)

	d = access.Decide(caller, unowned{})
	assert.True(t, d.Allowed)
	assert.Equal(t, access.ReasonNoOwner, d.Reason)
	assert.Equal(t, "alice", d.OwnerID)

	d = access.Decide(access.Caller{UserID: "x", Roles: []entities.Role{entities.RoleAdmin}}, &entities.User{ID: "bob"})
	assert.True(t, d.Allowed)
	assert.Equal(t, access.ReasonAdmin, d.Reason)
}
