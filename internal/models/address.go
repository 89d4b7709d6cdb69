package models

// Region is one level of the province/regency/district/village hierarchy.
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Address is a saved shipping address returned by GET /address.
type Address struct {
	ID            int64  `json:"id"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	AddressDetail string `json:"address_detail"`
	PostalCode    string `json:"postal_code"`
	Province      Region `json:"province"`
	Regency       Region `json:"regency"`
	District      Region `json:"district"`
	Village       Region `json:"village"`
}

// Envelope is the {"data": ...} wrapper used by list endpoints.
type Envelope[T any] struct {
	Data T `json:"data"`
}
