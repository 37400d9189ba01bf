package models

import "time"

// SavedAddress is a reusable address stored on a user profile. Bookings
// copy it into an AddressSnapshot; later edits never touch past bookings.
type SavedAddress struct {
	ID          string `bson:"id" json:"id"`
	Label       string `bson:"label,omitempty" json:"label,omitempty"`
	City        string `bson:"city" json:"city"`
	Street      string `bson:"street,omitempty" json:"street,omitempty"`
	HouseNumber string `bson:"houseNumber,omitempty" json:"houseNumber,omitempty"`
	Apartment   string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	Floor       string `bson:"floor,omitempty" json:"floor,omitempty"`
	FullAddress string `bson:"fullAddress,omitempty" json:"fullAddress,omitempty"`
}

// User is a customer account. Only the fields the order engine needs are
// modeled here.
type User struct {
	ID            string             `bson:"id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Language      string             `bson:"language,omitempty" json:"language,omitempty"`
	Addresses     []SavedAddress     `bson:"addresses,omitempty" json:"addresses,omitempty"`
	Notifications *ChannelPreference `bson:"notifications,omitempty" json:"notifications,omitempty"`
	FCMToken      string             `bson:"fcmToken,omitempty" json:"-"`
	IsAdmin       bool               `bson:"isAdmin,omitempty" json:"isAdmin,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AddressByID returns the saved address with the given id, or nil.
func (u *User) AddressByID(id string) *SavedAddress {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return &u.Addresses[i]
		}
	}
	return nil
}
