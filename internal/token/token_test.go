package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), time.Hour)

	tok, expiresAt, err := m.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	subject, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestIssueTwiceProducesDistinctTokens(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), time.Hour)

	tok1, _, err := m.Issue("alice")
	require.NoError(t, err)
	tok2, _, err := m.Issue("alice")
	require.NoError(t, err)

	// The jti claim randomizes the encoding, but both resolve to the same
	// subject.
	assert.NotEqual(t, tok1, tok2)

	for _, tok := range []string{tok1, tok2} {
		subject, err := m.Validate(tok)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	}
}

func TestValidateExpired(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), time.Hour)
	expired := NewManager([]byte("test-secret"), -time.Second)

	tok, _, err := expired.Issue("alice")
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJustBeforeExpiry(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), 2*time.Second)

	tok, _, err := m.Issue("alice")
	require.NoError(t, err)

	subject, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestValidateWrongKey(t *testing.T) {
	t.Parallel()

	issuer := NewManager([]byte("right-secret"), time.Hour)
	validator := NewManager([]byte("wrong-secret"), time.Hour)

	tok, _, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = validator.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := m.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestValidateMissingSubject(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), time.Hour)

	tok, _, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("test-secret"), 0)

	_, expiresAt, err := m.Issue("alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)
}
