package receipt

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mmynk/feereceipt/internal/models"
)

// maxStemBytes keeps <stem>_<unixms>_<n>.pdf under the usual 255-byte
// filename limit.
const maxStemBytes = 200

// reservedRunes are path separators and characters Windows or URLs give
// meaning to.
const reservedRunes = `/\:*?"<>|#%`

// BaseName suggests a filename stem for rec: the student name with runs of
// whitespace joined by underscores. Letters and digits of any script are
// kept; control, invisible and reserved characters are dropped. Blank
// names give "receipt".
func BaseName(rec *models.ReceiptRecord) string {
	if rec == nil {
		return "receipt"
	}
	joined := strings.Join(strings.Fields(rec.StudentName), "_")
	stem := strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) || strings.ContainsRune(reservedRunes, r) {
			return -1
		}
		return r
	}, joined)
	stem = strings.Trim(truncate(stem, maxStemBytes), "._")
	if stem == "" {
		return "receipt"
	}
	return stem
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
