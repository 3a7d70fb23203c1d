package models

// User is a staff account; ID is the identity provider's uid.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // raw stored value, may be a legacy alias
}

// OrderSettings lives at settings/orderSettings.
type OrderSettings struct {
	DeliveryEnabled       bool  `json:"deliveryEnabled"`
	DeliveryFee           int64 `json:"deliveryFee"`
	DefaultContainerPrice int64 `json:"defaultContainerPrice"`
}
