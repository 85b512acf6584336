package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateBookingReference returns EVT-YYYYMMDD-XXXXXX with six random
// uppercase letters
func generateBookingReference(now time.Time) (string, error) {
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(refLetters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = refLetters[num.Int64()]
	}
	return fmt.Sprintf("EVT-%s-%s", now.Format("20060102"), string(randomPart)), nil
}
