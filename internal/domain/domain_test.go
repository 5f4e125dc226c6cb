package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantOwnershipOwnedBy(t *testing.T) {
	rec := &TenantOwnership{Tenant: Tenant{ID: "t1", OwnerID: "u1"}}

	assert.True(t, rec.OwnedBy("u1"))
	assert.False(t, rec.OwnedBy("u2"))
	assert.False(t, rec.OwnedBy(""))

	var missing *TenantOwnership
	assert.False(t, missing.OwnedBy("u1"))
}

func TestUserIdentity(t *testing.T) {
	name := "User One"
	u := &User{ID: "u1", Username: "user1", Email: "user1@example.com", FullName: &name}

	id := u.Identity()
	assert.Equal(t, "u1", id.UserID())
	assert.Equal(t, "user1", id.Username)
	assert.Equal(t, &name, id.FullName)
	assert.Nil(t, id.Address)

	var none *Identity
	assert.Equal(t, "", none.UserID())
}

func TestOrderAndWishlistOwnedBy(t *testing.T) {
	order := &Order{ID: "o1", UserID: "u1"}
	assert.True(t, order.OwnedBy("u1"))
	assert.False(t, order.OwnedBy("u2"))
	assert.False(t, order.OwnedBy(""))

	wishlist := &Wishlist{ID: "w1", UserID: "u1"}
	assert.True(t, wishlist.OwnedBy("u1"))
	assert.False(t, wishlist.OwnedBy(""))

	var noOrder *Order
	var noWishlist *Wishlist
	assert.False(t, noOrder.OwnedBy("u1"))
	assert.False(t, noWishlist.OwnedBy("u1"))
}
