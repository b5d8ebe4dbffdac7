package pkg

import "math/rand"

const roomIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandString generates a short random identifier, used for room codes.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = roomIDCharset[rand.Intn(len(roomIDCharset))]
	}
	return string(b)
}
