package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBooking(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	valid := BookingInput{
		DoctorID:  "9b9f9a52-8f7e-4f1a-9f2d-0c1d2e3f4a5b",
		PatientID: "1a2b3c4d-5e6f-4a5b-8c9d-0e1f2a3b4c5d",
		StartTime: now.Add(24 * time.Hour),
		Notes:     "follow-up",
	}

	t.Run("accepts valid input", func(t *testing.T) {
		assert.NoError(t, ValidateBooking(valid, now))
	})

	cases := []struct {
		name      string
		mutate    func(in *BookingInput)
		wantField string
	}{
		{
			name:      "missing doctor",
			mutate:    func(in *BookingInput) { in.DoctorID = "" },
			wantField: "doctor_id",
		},
		{
			name:      "whitespace doctor",
			mutate:    func(in *BookingInput) { in.DoctorID = "   " },
			wantField: "doctor_id",
		},
		{
			name:      "missing patient",
			mutate:    func(in *BookingInput) { in.PatientID = "" },
			wantField: "patient_id",
		},
		{
			name:      "start time in the past",
			mutate:    func(in *BookingInput) { in.StartTime = now.Add(-time.Hour) },
			wantField: "start_time",
		},
		{
			name:      "start time exactly now",
			mutate:    func(in *BookingInput) { in.StartTime = now },
			wantField: "start_time",
		},
		{
			name:      "notes too long",
			mutate:    func(in *BookingInput) { in.Notes = strings.Repeat("x", 501) },
			wantField: "notes",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)

			err := ValidateBooking(in, now)
			require.Error(t, err)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.wantField, fieldErr.Field)
		})
	}

	t.Run("notes at the limit pass", func(t *testing.T) {
		in := valid
		in.Notes = strings.Repeat("x", 500)
		assert.NoError(t, ValidateBooking(in, now))
	})
}

func TestValidateNotes(t *testing.T) {
	assert.NoError(t, ValidateNotes(""))
	assert.NoError(t, ValidateNotes(strings.Repeat("x", 500)))

	err := ValidateNotes(strings.Repeat("x", 501))
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "notes", fieldErr.Field)
}

func TestParseMedicineInput(t *testing.T) {
	t.Run("accepts valid input", func(t *testing.T) {
		in, err := ParseMedicineInput(" Paracetamol ", "Analgesic", "4.99", "120")
		require.NoError(t, err)
		assert.Equal(t, "Paracetamol", in.Name)
		assert.Equal(t, "Analgesic", in.Category)
		assert.Equal(t, 4.99, in.Price)
		assert.Equal(t, 120, in.Quantity)
	})

	t.Run("accepts zero quantity", func(t *testing.T) {
		in, err := ParseMedicineInput("Ibuprofen", "Analgesic", "2.50", "0")
		require.NoError(t, err)
		assert.Equal(t, 0, in.Quantity)
	})

	cases := []struct {
		name      string
		input     [4]string // name, category, price, quantity
		wantField string
	}{
		{"blank name", [4]string{"", "Analgesic", "4.99", "10"}, "name"},
		{"whitespace name", [4]string{"  ", "Analgesic", "4.99", "10"}, "name"},
		{"blank category", [4]string{"Paracetamol", "", "4.99", "10"}, "category"},
		{"unparseable price", [4]string{"Paracetamol", "Analgesic", "four", "10"}, "price"},
		{"zero price", [4]string{"Paracetamol", "Analgesic", "0", "10"}, "price"},
		{"negative price", [4]string{"Paracetamol", "Analgesic", "-1.50", "10"}, "price"},
		{"unparseable quantity", [4]string{"Paracetamol", "Analgesic", "4.99", "ten"}, "quantity"},
		{"fractional quantity", [4]string{"Paracetamol", "Analgesic", "4.99", "1.5"}, "quantity"},
		{"negative quantity", [4]string{"Paracetamol", "Analgesic", "4.99", "-3"}, "quantity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMedicineInput(tc.input[0], tc.input[1], tc.input[2], tc.input[3])
			require.Error(t, err)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.wantField, fieldErr.Field)
		})
	}
}
