package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(date, createdAt, "txn-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedCreatedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, "txn-42", decodedID, "Transaction id should match after decode")

	// Zero times round-trip too.
	zeroTime := time.Time{}
	zeroToken := EncodeToken(zeroTime, zeroTime, "txn-0")
	decodedZeroDate, decodedZeroCreatedAt, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZeroDate)
	assert.Equal(t, zeroTime, decodedZeroCreatedAt)

	now := time.Now().UTC()
	nowToken := EncodeToken(now, now, "txn-now")
	decodedNowDate, decodedNowCreatedAt, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNowDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNowCreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 encoded date without the separators.
	_, _, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for a token without separators")
	assert.Contains(t, err.Error(), "split")

	// Base64 encoded "notadate|2023-05-15T14:30:45.123456789Z|txn-1".
	_, _, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODlafHR4bi0x")
	assert.Error(t, err, "Should return an error for an invalid date")
	assert.Contains(t, err.Error(), "date parse")

	// Base64 encoded "2023-05-15T00:00:00Z|notatime|txn-1".
	_, _, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFp8bm90YXRpbWV8dHhuLTE=")
	assert.Error(t, err, "Should return an error for an invalid created_at")
	assert.Contains(t, err.Error(), "created_at parse")

	// Base64 encoded "2023-05-15T00:00:00Z|2023-05-15T14:30:45.123456789Z|".
	_, _, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFp8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODlafA==")
	assert.Error(t, err, "Should return an error for a token without an id")
	assert.Contains(t, err.Error(), "missing id")
}
