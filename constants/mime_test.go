package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMime(t *testing.T) {
	tests := []struct {
		mime string
		want MimeFamily
	}{
		{"image/jpeg", FamilyImage},
		{"image/png", FamilyImage},
		{"IMAGE/PNG", FamilyImage},
		{"image/jpeg; q=1", FamilyImage},
		{"application/pdf", FamilyPDF},
		{"Application/PDF", FamilyPDF},
		{" application/pdf ", FamilyPDF},
		{"application/msword", FamilyUnsupported},
		{"text/plain", FamilyUnsupported},
		{"audio/ogg", FamilyUnsupported},
		{"", FamilyUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMime(tt.mime), "mime %q", tt.mime)
	}
}

func TestIsConfirmation(t *testing.T) {
	assert.True(t, IsConfirmation("SIM"))
	assert.True(t, IsConfirmation("sim"))
	assert.True(t, IsConfirmation("  Sim  "))
	assert.False(t, IsConfirmation("sim!"))
	assert.False(t, IsConfirmation("nao"))
	assert.False(t, IsConfirmation(""))
	assert.False(t, IsConfirmation("sim sim"))
}
