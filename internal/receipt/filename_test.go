package receipt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/storage/files"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Asha R", "Asha_R"},
		{"  Asha   R  ", "Asha_R"},
		{"", "receipt"},
		{"   ", "receipt"},
		{"../../etc/passwd", "etcpasswd"},
		{"O'Brien, Kate", "O'Brien,_Kate"},
		{"Élise Ng", "Élise_Ng"},
		{`Аша (x) \ 日本`, "Аша_(x)__日本"},
		{"अनन्या शर्मा", "अनन्या_शर्मा"},
		{"Ravi\tKumar\x00", "Ravi_Kumar"},
		{"a<b>:c|d?*#%\"", "abcd"},
		{"\u200b", "receipt"},
		{`\\//`, "receipt"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := BaseName(&models.ReceiptRecord{StudentName: tt.name})
			assert.Equal(t, tt.want, got)
			assert.NoError(t, files.ValidateName(got+"_1700000000000.pdf"))
		})
	}
	assert.Equal(t, "receipt", BaseName(nil))
}

func TestBaseName_LongNameIsCutOnRuneBoundary(t *testing.T) {
	got := BaseName(&models.ReceiptRecord{StudentName: strings.Repeat("日", 100)})

	assert.LessOrEqual(t, len(got), maxStemBytes)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", maxStemBytes/3), got)
}
