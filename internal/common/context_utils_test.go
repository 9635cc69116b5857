package common

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	id := uuid.New()

	got, err := ValidateUUID(id.String(), "id")
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)

	_, err = ValidateUUID("", "id")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29", "start_date")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("29/02/2024", "start_date")
	assert.Error(t, err)

	_, err = ParseDate("", "start_date")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil, "end_date")
	assert.NoError(t, err)
	assert.Nil(t, got)

	val := "2024-06-30"
	got, err = ParseOptionalDate(&val, "end_date")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), *got)

	bad := "junk"
	_, err = ParseOptionalDate(&bad, "end_date")
	assert.Error(t, err)
}

func TestNormalizeRoomNumber(t *testing.T) {
	messy := "  A  12 "
	got := NormalizeRoomNumber(&messy)
	assert.Equal(t, "A 12", *got)

	empty := "   "
	assert.Nil(t, NormalizeRoomNumber(&empty))

	assert.Nil(t, NormalizeRoomNumber(nil))
}

func TestGetUserIDFromContext(t *testing.T) {
	userID := uuid.New()
	ctx := context.WithValue(context.Background(), UserIDKey, userID)

	got, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}
