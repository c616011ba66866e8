package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", " User.Name+tag@Mail.Example.org "}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "no-at-sign", "a@b@c.com", "@example.com", "user@", "user@localhost"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("1234567890"))
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 40)))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Иван Петров"))
	assert.NoError(t, ValidateName("O'Neil-Smith"))
	assert.Error(t, ValidateName(" "))
	assert.Error(t, ValidateName("x"))
	assert.Error(t, ValidateName("<script>"))
}

func TestValidateGigFields(t *testing.T) {
	assert.NoError(t, ValidateGigTitle("Логотип"))
	assert.Error(t, ValidateGigTitle("   "))
	assert.Error(t, ValidateGigTitle(strings.Repeat("я", MaxGigTitleLength+1)))
	// длина считается в символах, а не байтах
	assert.NoError(t, ValidateGigTitle(strings.Repeat("я", MaxGigTitleLength)))

	assert.NoError(t, ValidateGigDescription("описание"))
	assert.Error(t, ValidateGigDescription(""))
	assert.Error(t, ValidateGigDescription(strings.Repeat("a", MaxGigDescriptionLength+1)))
}

func TestValidateBidMessage(t *testing.T) {
	assert.NoError(t, ValidateBidMessage("готов взяться"))
	assert.Error(t, ValidateBidMessage(""))
	assert.NoError(t, ValidateBidMessage(strings.Repeat("a", MaxBidMessageLength)))
	assert.Error(t, ValidateBidMessage(strings.Repeat("a", MaxBidMessageLength+1)))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount("цена", 0))
	assert.NoError(t, ValidateAmount("цена", 1500.5))
	assert.Error(t, ValidateAmount("цена", -0.01))
	assert.Error(t, ValidateAmount("цена", MaxAmount+1))
	assert.Error(t, ValidateAmount("цена", math.NaN()))
	assert.Error(t, ValidateAmount("цена", math.Inf(1)))
}
