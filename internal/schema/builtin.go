package schema

import (
	"errors"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"travelapi/internal/model"
)

// Entity names registered by Builtin.
const (
	EntityUser    = "User"
	EntityAccount = "Account"
	EntityBooking = "Booking"
)

const (
	EmailPattern    = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	UUIDPattern     = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`
	DatePattern     = `^\d{4}-\d{2}-\d{2}$`
	CurrencyPattern = `^[A-Z]{3}$`

	PhoneNumberPattern = `^[0-9 ()-]{4,20}$`
	DialCodePattern    = `^\+?[0-9]{1,4}$`
)

const dateLayout = "2006-01-02"

// Builtin returns the travel booking entities.
func Builtin() []Definition {
	return []Definition{userDefinition(), accountDefinition(), bookingDefinition()}
}

func userDefinition() Definition {
	return Definition{
		Name: EntityUser,
		Fields: []Field{
			{Name: "firstName", Type: TypeString, Required: true, MinLength: jsonschema.Ptr(1), MaxLength: jsonschema.Ptr(50), Coerce: []Coercion{CoerceTrim}},
			{Name: "lastName", Type: TypeString, Required: true, MinLength: jsonschema.Ptr(1), MaxLength: jsonschema.Ptr(50), Coerce: []Coercion{CoerceTrim}},
			{Name: "email", Type: TypeString, Required: true, Pattern: EmailPattern, Coerce: []Coercion{CoerceTrim, CoerceLower}},
			{Name: "emailVerified", Type: TypeBoolean, Default: false},
			{Name: "image", Type: TypeString},
			{Name: "phone", Type: TypeObject, Properties: []Field{
				{Name: "number", Type: TypeString, Required: true, Pattern: PhoneNumberPattern},
				{Name: "dialCode", Type: TypeString, Required: true, Pattern: DialCodePattern},
			}},
			{Name: "role", Type: TypeString, Enum: []any{"user", "admin"}, Default: "user"},
		},
	}
}

func accountDefinition() Definition {
	return Definition{
		Name: EntityAccount,
		Fields: []Field{
			{Name: "userId", Type: TypeString, Required: true, Pattern: UUIDPattern},
			{Name: "type", Type: TypeString, Required: true, Enum: []any{"credentials", "oauth"}},
			{Name: "provider", Type: TypeString, Required: true, MinLength: jsonschema.Ptr(1), Coerce: []Coercion{CoerceTrim, CoerceLower}},
			{Name: "providerAccountId", Type: TypeString, Required: true, MinLength: jsonschema.Ptr(1)},
			{Name: "password", Type: TypeString},
		},
	}
}

func bookingDefinition() Definition {
	return Definition{
		Name: EntityBooking,
		Fields: []Field{
			{Name: "userId", Type: TypeString, Required: true, Pattern: UUIDPattern},
			{Name: "destination", Type: TypeString, Required: true, MinLength: jsonschema.Ptr(1), Coerce: []Coercion{CoerceTrim}},
			{Name: "checkIn", Type: TypeString, Required: true, Pattern: DatePattern},
			{Name: "checkOut", Type: TypeString, Required: true, Pattern: DatePattern},
			{Name: "guests", Type: TypeInteger, Required: true, Minimum: jsonschema.Ptr(1.0)},
			{Name: "totalPrice", Type: TypeNumber, Minimum: jsonschema.Ptr(0.0)},
			{Name: "currency", Type: TypeString, Pattern: CurrencyPattern, Default: "USD", Coerce: []Coercion{CoerceTrim, CoerceUpper}},
			{Name: "status", Type: TypeString, Enum: []any{"pending", "confirmed", "cancelled"}, Default: "pending"},
		},
		Rules: []Rule{checkOutAfterCheckIn},
	}
}

func checkOutAfterCheckIn(rec model.Record) (string, error) {
	in, okIn := rec["checkIn"].(string)
	out, okOut := rec["checkOut"].(string)
	if !okIn || !okOut {
		return "", nil
	}
	start, err := time.Parse(dateLayout, in)
	if err != nil {
		return "checkIn", errors.New("checkIn is not a calendar date")
	}
	end, err := time.Parse(dateLayout, out)
	if err != nil {
		return "checkOut", errors.New("checkOut is not a calendar date")
	}
	if !end.After(start) {
		return "checkOut", errors.New("checkOut must be after checkIn")
	}
	return "", nil
}
