package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID int64           `json:"product_id" validate:"gte=1"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Price     decimal.Decimal `json:"price" validate:"dgt=0,money"`
}

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"name" validate:"min=1,max=5"`
	Note   *string `json:"note" validate:"omitnil,max=3"`
	Status string  `json:"status" validate:"required,oneof=pending shipped"`
	Lines  []line  `json:"lines" validate:"dive"`
}

func validSample() sample {
	return sample{
		Email:  "a@example.com",
		Name:   "ok",
		Status: "pending",
		Lines:  []line{{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("1.50")}},
	}
}

func violations(t *testing.T, err error) map[string]FieldViolation {
	t.Helper()
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)

	out := make(map[string]FieldViolation, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f
	}
	return out
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validSample()))
}

func TestValidate_Messages(t *testing.T) {
	long := "toolong"

	tests := []struct {
		name  string
		edit  func(*sample)
		field string
		want  string
	}{
		{"empty name", func(s *sample) { s.Name = "" }, "name", "String should have at least 1 character"},
		{"long name", func(s *sample) { s.Name = "abcdef" }, "name", "String should have at most 5 characters"},
		{"long note", func(s *sample) { s.Note = &long }, "note", "at most 3 characters"},
		{"bad email", func(s *sample) { s.Email = "invalid-email" }, "email", "value is not a valid email address"},
		{"missing email", func(s *sample) { s.Email = "" }, "email", "Field required"},
		{"bad status", func(s *sample) { s.Status = "lost" }, "status", "String should match pattern '^(pending|shipped)$'"},
		{"zero product", func(s *sample) { s.Lines[0].ProductID = 0 }, "lines[0].product_id", "greater than or equal to 1"},
		{"zero quantity", func(s *sample) { s.Lines[0].Quantity = 0 }, "lines[0].quantity", "greater than or equal to 1"},
		{"zero price", func(s *sample) { s.Lines[0].Price = decimal.Zero }, "lines[0].price", "greater than 0"},
		{"negative price", func(s *sample) { s.Lines[0].Price = decimal.RequireFromString("-10") }, "lines[0].price", "greater than 0"},
		{"three decimals", func(s *sample) { s.Lines[0].Price = decimal.RequireFromString("1.005") }, "lines[0].price", "Decimal input should have no more than 2 decimal places"},
		{"nine whole digits", func(s *sample) { s.Lines[0].Price = decimal.RequireFromString("123456789.1") }, "lines[0].price", "Decimal input should have no more than 8 digits before the decimal point"},
		{"beyond float64", func(s *sample) { s.Lines[0].Price = decimal.RequireFromString("1e400") }, "lines[0].price", "no more than 8 digits before the decimal point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.edit(&s)

			got := violations(t, Validate(s))
			require.Contains(t, got, tt.field)
			assert.Contains(t, got[tt.field].Message, tt.want)
		})
	}
}

func TestValidate_DecimalsCompareExactly(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"0.01", true},
		{"99999999.99", true},
		{"1.50", true},
		{"1.500", true},
		{"0.001", false},
		{"1e-400", false},
		{"100000000", false},
		{"0", false},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			s := validSample()
			s.Lines[0].Price = decimal.RequireFromString(tt.price)
			err := Validate(s)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, violations(t, err), "lines[0].price")
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	s := validSample()
	s.Name = ""
	s.Email = "nope"
	s.Lines = append(s.Lines, line{ProductID: 0, Quantity: 0, Price: decimal.Zero})

	got := violations(t, Validate(s))
	assert.Len(t, got, 5)
	assert.Contains(t, got, "lines[1].price")
}

func TestValidate_NilPointerSkipped(t *testing.T) {
	s := validSample()
	s.Note = nil
	assert.NoError(t, Validate(s))
}

func TestError_Message(t *testing.T) {
	err := NewError("limit", "gte", "Input should be greater than or equal to 1")
	assert.True(t, strings.HasPrefix(err.Error(), "validation failed: limit:"))
}
