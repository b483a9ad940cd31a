package validation

import (
	"testing"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	t.Run("valid card", func(t *testing.T) {
		req := models.CreateCardRequest{GroupName: "IVE", MemberName: "Wonyoung", Condition: models.ConditionMint}
		assert.NoError(t, ValidateStruct(req))
	})

	t.Run("messages use json names", func(t *testing.T) {
		req := models.CreateCardRequest{GroupName: "IVE", Condition: "scratched"}
		err := ValidateStruct(req)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		assert.Contains(t, err.Error(), "member_name is required")
		assert.Contains(t, err.Error(), "condition must be one of: mint, near_mint, good, fair, poor")
	})

	t.Run("numeric bounds", func(t *testing.T) {
		lat, lng := 91.0, 0.0
		err := ValidateStruct(models.UpdateLocationRequest{Latitude: &lat, Longitude: &lng})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		assert.Contains(t, err.Error(), "latitude must not exceed 90")
	})

	t.Run("rating score", func(t *testing.T) {
		err := ValidateStruct(models.CreateRatingRequest{Score: 6})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestIsValidNickname(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"pocalover", true},
		{"포카_러버", true},
		{"a", false},
		{"has space", false},
		{"<script>", false},
		{"dots.and_underscores1", true},
		{"abcdefghijklmnopqrstuvwxyz12345", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidNickname(tt.in))
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  <b>hello</b>\x00 "))
	assert.Equal(t, "", SanitizeString("<script></script>"))
	assert.Equal(t, "don't & co", SanitizeString("don't & co"))

	s := " <i>bio</i> "
	SanitizePtr(&s)
	assert.Equal(t, "bio", s)
	SanitizePtr(nil)

	assert.Equal(t, []string{"IVE", "aespa"}, SanitizeAll([]string{"IVE", "<br>", " aespa "}))
}
