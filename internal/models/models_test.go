package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_UserProfile(t *testing.T) {
	t.Run("accepts profile with id and role", func(t *testing.T) {
		u := UserProfile{ID: 7, Name: "Budi", Email: "budi@example.com", Role: RoleUser}
		require.NoError(t, Validate(u))
	})

	t.Run("rejects profile without role", func(t *testing.T) {
		u := UserProfile{ID: 7, Email: "budi@example.com"}
		err := Validate(u)
		require.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "Role")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		u := UserProfile{ID: 7, Email: "not-an-email", Role: RoleUser}
		require.ErrorIs(t, Validate(u), ErrInvalid)
	})
}

func TestValidate_AuthResponse(t *testing.T) {
	var resp AuthResponse
	err := json.Unmarshal([]byte(`{"user":{"id":1,"role":"user"},"token":""}`), &resp)
	require.NoError(t, err)

	err = Validate(resp)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "Token")
}

func TestValidate_CartRequests(t *testing.T) {
	require.NoError(t, Validate(AddToCartRequest{ProductID: 5, Size: "M", Quantity: 2}))
	require.ErrorIs(t, Validate(AddToCartRequest{ProductID: 5, Size: "M"}), ErrInvalid)
	require.ErrorIs(t, Validate(AddToCartRequest{ProductID: 5, Quantity: 1}), ErrInvalid)
	require.ErrorIs(t, Validate(UpdateQuantityRequest{Quantity: 0}), ErrInvalid)
}

func TestRegisterForm_PayloadDropsConfirmation(t *testing.T) {
	form := RegisterForm{
		Name:            "Siti",
		Email:           "siti@example.com",
		Phone:           "0812",
		Password:        "rahasia123",
		PasswordConfirm: "rahasia123",
	}

	data, err := json.Marshal(form.Payload())
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Len(t, body, 4)
	assert.NotContains(t, body, "passwordConfirm")
	assert.NotContains(t, body, "PasswordConfirm")
	assert.Equal(t, "siti@example.com", body["email"])
}

func TestCartSnapshot_Clone(t *testing.T) {
	id := int64(3)
	orig := CartSnapshot{
		CartID:  &id,
		Items:   []CartItem{{ID: 1, ProductID: 5, Size: "M", Quantity: 2}},
		Summary: CartSummary{TotalItems: 1, TotalQuantity: 2, TotalPrice: 300000},
	}

	clone := orig.Clone()
	clone.Items[0].Quantity = 9
	*clone.CartID = 99

	assert.Equal(t, 2, orig.Items[0].Quantity)
	assert.Equal(t, int64(3), *orig.CartID)
}

func TestProfileUpdateResponse_Profile(t *testing.T) {
	var withUser ProfileUpdateResponse
	require.NoError(t, json.Unmarshal([]byte(`{"user":{"id":1,"name":"A","role":"user"}}`), &withUser))
	assert.Equal(t, "A", withUser.Profile().Name)

	var withData ProfileUpdateResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"id":1,"name":"B","role":"user"}}`), &withData))
	assert.Equal(t, "B", withData.Profile().Name)

	var empty ProfileUpdateResponse
	assert.Nil(t, empty.Profile())
}

func TestUserProfile_HasRole(t *testing.T) {
	u := &UserProfile{ID: 1, Role: RoleUser}
	assert.True(t, u.HasRole(RoleAdmin, RoleUser))
	assert.False(t, u.HasRole(RoleAdmin))

	var none *UserProfile
	assert.False(t, none.HasRole(RoleUser))
}

func TestProduct_StockFor(t *testing.T) {
	p := Product{Stocks: []ProductStock{{Size: "S", Stock: 3}, {Size: "M", Stock: 0}}}

	n, ok := p.StockFor("S")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = p.StockFor("XL")
	assert.False(t, ok)
}
