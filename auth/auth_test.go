package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func TestSessionRoundTrip(t *testing.T) {
	issuer := NewSessionIssuer("secret", time.Hour)

	issued, err := issuer.New()
	require.NoError(t, err)
	assert.Regexp(t, `^sess_[0-9a-f]{32}$`, issued.SessionID)

	id, err := issuer.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, id)

	renewed, err := issuer.Renew(id)
	require.NoError(t, err)
	assert.Equal(t, id, renewed.SessionID)
}

func TestSessionRejects(t *testing.T) {
	issuer := NewSessionIssuer("secret", time.Hour)
	issued, err := issuer.New()
	require.NoError(t, err)

	_, err = NewSessionIssuer("other", time.Hour).Parse(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"session_id": "x"}).SignedString([]byte("secret"))
	_, err = NewSessionIssuer("secret", time.Hour).Parse(noExp)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

type fakeFirebase struct {
	token *firebaseauth.Token
	err   error
}

func (f fakeFirebase) VerifyIDTokenAndCheckRevoked(context.Context, string) (*firebaseauth.Token, error) {
	return f.token, f.err
}

func TestGoogleVerify(t *testing.T) {
	v := &GoogleVerifier{projectID: "castle", client: fakeFirebase{token: &firebaseauth.Token{
		UID:      "g-123",
		Audience: "castle",
		Claims:   map[string]interface{}{"email": "jane@example.com", "name": "Jane Wanjiru Doe", "picture": "https://img/x.png"},
	}}}

	id, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.GoogleAuthRequest{
		GoogleID:       "g-123",
		Email:          "jane@example.com",
		FirstName:      "Jane",
		LastName:       "Wanjiru Doe",
		ProfilePicture: "https://img/x.png",
	}, id.AuthRequest())
}

func TestGoogleVerifyRejects(t *testing.T) {
	wrongAudience := &GoogleVerifier{projectID: "castle", client: fakeFirebase{token: &firebaseauth.Token{
		Audience: "elsewhere", Claims: map[string]interface{}{"email": "a@b.c"},
	}}}
	_, err := wrongAudience.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidIDToken)

	noEmail := &GoogleVerifier{projectID: "castle", client: fakeFirebase{token: &firebaseauth.Token{
		Audience: "castle", Claims: map[string]interface{}{},
	}}}
	_, err = noEmail.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidIDToken)

	revoked := &GoogleVerifier{projectID: "castle", client: fakeFirebase{err: errors.New("revoked")}}
	_, err = revoked.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidIDToken)

	var unset *GoogleVerifier
	_, err = unset.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrGoogleNotConfigured)

	_, err = NewGoogleVerifier(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrGoogleNotConfigured)
}
