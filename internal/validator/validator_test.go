package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelapi/internal/apperror"
	"travelapi/internal/model"
	"travelapi/internal/schema"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	reg, err := schema.NewRegistry(schema.Builtin()...)
	require.NoError(t, err)
	return New(reg)
}

func validUser() map[string]any {
	return map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "  Ada@Example.com ",
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		entity  any
		record  any
		wantMsg string
	}{
		{"entity not a string", 42, validUser(), "entity name must be a string, got number"},
		{"nil record", "user", nil, "record must be a non-null object, got null"},
		{"nil map", "user", map[string]any(nil), "record must be a non-null object, got null"},
		{"array record", "user", []any{validUser()}, "record must be a non-null object, got array"},
		{"string record", "user", "{}", "record must be a non-null object, got string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.entity, tt.record)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrTypeMismatch)
			e, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestValidate_UnknownEntity(t *testing.T) {
	v := newValidator(t)

	_, err := v.Validate("hotel", validUser())
	assert.ErrorIs(t, err, apperror.ErrUnknownEntity)
	assert.ErrorIs(t, err, schema.ErrUnknownEntity)
}

func TestValidate_UnexpectedFields(t *testing.T) {
	v := newValidator(t)

	t.Run("lists exactly the extra keys in input order", func(t *testing.T) {
		rec := validUser()
		rec["zeta"] = 1
		rec["alpha"] = true

		_, err := v.Validate("user", rec, WithKeyOrder([]string{"firstName", "zeta", "lastName", "email", "alpha"}))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnexpectedFields)

		e, _ := apperror.As(err)
		assert.Equal(t,
			"unexpected fields for User: zeta, alpha; allowed fields: firstName, lastName, email, emailVerified, image, phone, role, id",
			e.Message)
		assert.Equal(t, map[string]string{"zeta": "field is not allowed", "alpha": "field is not allowed"}, e.Fields)
	})

	t.Run("without key order extra keys are sorted", func(t *testing.T) {
		rec := validUser()
		rec["zeta"] = 1
		rec["alpha"] = true

		_, err := v.Validate("User", rec)
		e, ok := apperror.As(err)
		require.True(t, ok)
		assert.Contains(t, e.Message, "unexpected fields for User: alpha, zeta;")
	})

	t.Run("identifier field is always allowed", func(t *testing.T) {
		rec := validUser()
		rec["id"] = uuid.NewString()

		got, err := v.Validate("user", rec)
		require.NoError(t, err)
		assert.Equal(t, rec["id"], got.Record["id"])
	})
}

func TestValidate_FieldValidation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		entity    string
		record    map[string]any
		wantField string
	}{
		{
			name:      "missing required field",
			entity:    "user",
			record:    map[string]any{"firstName": "Ada", "email": "ada@example.com"},
			wantField: "lastName",
		},
		{
			name:      "bad email format",
			entity:    "user",
			record:    map[string]any{"firstName": "Ada", "lastName": "L", "email": "not-an-email"},
			wantField: "email",
		},
		{
			name:      "wrong type",
			entity:    "booking",
			record:    map[string]any{"userId": uuid.NewString(), "destination": "Lisbon", "checkIn": "2026-05-01", "checkOut": "2026-05-03", "guests": "two"},
			wantField: "guests",
		},
		{
			name:      "enum violation",
			entity:    "booking",
			record:    map[string]any{"userId": uuid.NewString(), "destination": "Lisbon", "checkIn": "2026-05-01", "checkOut": "2026-05-03", "guests": 2.0, "status": "lost"},
			wantField: "status",
		},
		{
			name:      "record rule",
			entity:    "booking",
			record:    map[string]any{"userId": uuid.NewString(), "destination": "Lisbon", "checkIn": "2026-05-03", "checkOut": "2026-05-01", "guests": 2.0},
			wantField: "checkOut",
		},
		{
			name:      "identifier not a uuid",
			entity:    "user",
			record:    map[string]any{"id": "abc", "firstName": "Ada", "lastName": "L", "email": "ada@example.com"},
			wantField: "id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.entity, tt.record)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrFieldValidationFailed)

			e, _ := apperror.As(err)
			assert.NotEmpty(t, e.Message)
			assert.Contains(t, e.Fields, tt.wantField)
		})
	}
}

func TestValidate_Success(t *testing.T) {
	v := newValidator(t)
	rec := validUser()

	got, err := v.Validate(" USER ", rec)
	require.NoError(t, err)

	assert.Equal(t, "User", got.Entity)
	assert.Equal(t, "ada@example.com", got.Record["email"])
	assert.Equal(t, false, got.Record["emailVerified"])
	assert.Equal(t, "user", got.Record["role"])

	// caller's record is untouched
	assert.Equal(t, "  Ada@Example.com ", rec["email"])
	assert.NotContains(t, rec, "role")
}

func TestValidate_BookingDefaults(t *testing.T) {
	v := newValidator(t)

	got, err := v.Validate("booking", model.Record{
		"userId":      uuid.NewString(),
		"destination": " Kyoto ",
		"checkIn":     "2026-04-01",
		"checkOut":    "2026-04-08",
		"guests":      2.0,
		"currency":    "jpy",
	})
	require.NoError(t, err)
	assert.Equal(t, "Booking", got.Entity)
	assert.Equal(t, "Kyoto", got.Record["destination"])
	assert.Equal(t, "JPY", got.Record["currency"])
	assert.Equal(t, "pending", got.Record["status"])
}

func TestValidate_Idempotent(t *testing.T) {
	v := newValidator(t)
	rec := validUser()
	rec["phone"] = map[string]any{"number": "555 0100", "dialCode": "+1"}

	first, err := v.Validate("user", rec)
	require.NoError(t, err)
	second, err := v.Validate("user", rec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
