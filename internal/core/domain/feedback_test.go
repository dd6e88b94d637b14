package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRating_Validate tests rating range enforcement
func TestRating_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rating  Rating
		wantErr bool
	}{
		{name: "minimum", rating: Rating{Overall: 1}, wantErr: false},
		{name: "maximum", rating: Rating{Overall: 10}, wantErr: false},
		{name: "middle with comment", rating: Rating{Overall: 7, Comment: "insightful"}, wantErr: false},
		{name: "zero", rating: Rating{Overall: 0}, wantErr: true},
		{name: "negative", rating: Rating{Overall: -3}, wantErr: true},
		{name: "above maximum", rating: Rating{Overall: 11}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rating.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
