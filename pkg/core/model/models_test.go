package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationDraft_IsDefault(t *testing.T) {
	d := NewApplicationDraft()
	assert.True(t, d.IsDefault())
	assert.NotNil(t, d.Interests)
}

func TestApplicationDraft_CloneIsIndependent(t *testing.T) {
	d := NewApplicationDraft()
	d.Interests["Fundraising"] = struct{}{}

	c := d.Clone()
	delete(d.Interests, "Fundraising")

	assert.True(t, c.Interests.Has("Fundraising"))
	assert.False(t, d.Interests.Has("Fundraising"))
}

func TestInterestSet_LabelsInCatalogOrder(t *testing.T) {
	s := InterestSet{
		"Administrative Support": {},
		"Education & Literacy":   {},
		"Fundraising":            {},
	}

	assert.Equal(t, []string{"Education & Literacy", "Fundraising", "Administrative Support"}, s.Labels())
}

func TestIsCatalogInterest(t *testing.T) {
	for _, label := range InterestCatalog {
		assert.True(t, IsCatalogInterest(label), label)
	}
	assert.False(t, IsCatalogInterest("Knitting"))
	assert.False(t, IsCatalogInterest(""))
}

func TestParseAvailability(t *testing.T) {
	for _, a := range AvailabilityOptions {
		got, err := ParseAvailability(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.NotEmpty(t, a.Label())
	}

	got, err := ParseAvailability("")
	require.NoError(t, err)
	assert.Equal(t, AvailabilityUnset, got)

	_, err = ParseAvailability("sometimes")
	assert.Error(t, err)
}

func TestParseField_Unknown(t *testing.T) {
	_, err := ParseField("favouriteColour")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestParseField_RoundTripsNames(t *testing.T) {
	for f := FieldFirstName; f <= FieldAgreeToTerms; f++ {
		got, err := ParseField(f.Name())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestFieldValue_ApplyTouchesOnlyNamedField(t *testing.T) {
	d := NewApplicationDraft()

	require.NoError(t, TextValue(FieldEmail, "ada@example.com").Apply(&d))

	want := NewApplicationDraft()
	want.Email = "ada@example.com"
	assert.Equal(t, want, d)
}

func TestFieldValue_WrongKind(t *testing.T) {
	d := NewApplicationDraft()

	err := BoolValue(FieldFirstName, true).Apply(&d)
	assert.ErrorIs(t, err, ErrWrongValueKind)

	err = TextValue(FieldAgreeToTerms, "yes").Apply(&d)
	assert.ErrorIs(t, err, ErrWrongValueKind)

	assert.True(t, d.IsDefault())
}

func TestFieldValue_InvalidAvailability(t *testing.T) {
	d := NewApplicationDraft()
	err := TextValue(FieldAvailability, "never").Apply(&d)
	assert.Error(t, err)
	assert.Equal(t, AvailabilityUnset, d.Availability)
}

func TestParseFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		check   func(t *testing.T, d ApplicationDraft)
		wantErr error
	}{
		{
			name:  "text field",
			field: "location",
			value: "Leeds, UK",
			check: func(t *testing.T, d ApplicationDraft) { assert.Equal(t, "Leeds, UK", d.Location) },
		},
		{
			name:  "checkbox on",
			field: "agreeToTerms",
			value: "on",
			check: func(t *testing.T, d ApplicationDraft) { assert.True(t, d.AgreeToTerms) },
		},
		{
			name:  "checkbox empty",
			field: "agreeToTerms",
			value: "",
			check: func(t *testing.T, d ApplicationDraft) { assert.False(t, d.AgreeToTerms) },
		},
		{
			name:    "checkbox garbage",
			field:   "agreeToTerms",
			value:   "maybe",
			wantErr: ErrWrongValueKind,
		},
		{
			name:    "unknown field",
			field:   "interests",
			value:   "Fundraising",
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseFieldValue(tt.field, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			d := NewApplicationDraft()
			require.NoError(t, v.Apply(&d))
			tt.check(t, d)
		})
	}
}
