package auth

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-token"

var initDataNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func initFields(authDate time.Time) url.Values {
	return url.Values{
		"auth_date": {strconv.FormatInt(authDate.Unix(), 10)},
		"query_id":  {"AAH"},
		"user":      {`{"id":777,"username":"ivan","language_code":"ru"}`},
	}
}

func testVerifier() *InitDataVerifier {
	v := NewInitDataVerifier(testBotToken, time.Hour)
	v.now = func() time.Time { return initDataNow }
	return v
}

func TestInitDataVerifier_AcceptsSigned(t *testing.T) {
	// Arrange
	data := SignInitData(testBotToken, initFields(initDataNow.Add(-time.Minute)))

	// Act
	user, err := testVerifier().Verify(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(777), user.ID)
	assert.Equal(t, "ivan", user.Username)
	assert.Equal(t, "ru", user.LanguageCode)
}

func TestInitDataVerifier_Rejects(t *testing.T) {
	fresh := initDataNow.Add(-time.Minute)

	tampered, err := url.ParseQuery(SignInitData(testBotToken, initFields(fresh)))
	require.NoError(t, err)
	tampered.Set("user", `{"id":1,"username":"admin"}`)

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unsigned", initFields(fresh).Encode(), ErrInitDataInvalid},
		{"other bot token", SignInitData("999:OTHER", initFields(fresh)), ErrInitDataInvalid},
		{"tampered user", tampered.Encode(), ErrInitDataInvalid},
		{"garbage hash", initFields(fresh).Encode() + "&hash=zz", ErrInitDataInvalid},
		{"expired", SignInitData(testBotToken, initFields(initDataNow.Add(-2*time.Hour))), ErrInitDataExpired},
		{"bare tlgid", "tlgid=777", ErrInitDataInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			user, err := testVerifier().Verify(tt.data)

			// Assert
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInitDataVerifier_DisabledWithoutToken(t *testing.T) {
	data := SignInitData("", initFields(initDataNow))

	_, err := NewInitDataVerifier("", 0).Verify(data)

	assert.ErrorIs(t, err, ErrInitDataDisabled)
}
