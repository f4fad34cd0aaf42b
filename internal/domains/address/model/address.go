package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrAddressForbidden = errors.New("address does not belong to this user")
)

type AddressType string

const (
	AddressTypeHome   AddressType = "home"
	AddressTypeOffice AddressType = "office"
	AddressTypeOther  AddressType = "other"
)

type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`

	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Street   string `json:"street"`

	AddressType *string   `json:"address_type,omitempty"`
	IsDefault   bool      `json:"is_default"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress ghép street, ward, district, province thành một dòng
func (a *Address) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Ward, a.District, a.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ============================================
// REQUEST DTOs
// ============================================

var vnPhoneRegex = regexp.MustCompile(`^(\+84|0)[35789][0-9]{8}$`)

type CreateAddressRequest struct {
	RecipientName string  `json:"recipient_name"`
	Phone         string  `json:"phone"`
	Province      string  `json:"province"`
	District      string  `json:"district"`
	Ward          string  `json:"ward"`
	Street        string  `json:"street"`
	AddressType   *string `json:"address_type"`
	IsDefault     bool    `json:"is_default"`
	Notes         *string `json:"notes"`
}

func (r CreateAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Match(vnPhoneRegex).Error("invalid Vietnamese phone number")),
		validation.Field(&r.Province, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.District, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Ward, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Street, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.AddressType, validation.NilOrNotEmpty,
			validation.In(string(AddressTypeHome), string(AddressTypeOffice), string(AddressTypeOther))),
		validation.Field(&r.Notes, validation.NilOrNotEmpty, validation.Length(0, 500)),
	)
}

// ToAddress trims input and builds the entity owned by userID
func (r *CreateAddressRequest) ToAddress(userID uuid.UUID) *Address {
	return &Address{
		UserID:        userID,
		RecipientName: strings.TrimSpace(r.RecipientName),
		Phone:         strings.TrimSpace(r.Phone),
		Province:      strings.TrimSpace(r.Province),
		District:      strings.TrimSpace(r.District),
		Ward:          strings.TrimSpace(r.Ward),
		Street:        strings.TrimSpace(r.Street),
		AddressType:   r.AddressType,
		IsDefault:     r.IsDefault,
		Notes:         r.Notes,
	}
}
