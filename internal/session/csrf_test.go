package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCSRFGenerateValidateRoundTrip(t *testing.T) {
	csrf := NewCSRF("clave-de-prueba", time.Hour)

	token, err := csrf.Generate("ses-1")
	require.NoError(t, err)
	require.NoError(t, csrf.Validate(token, "ses-1"))
}

func TestCSRFRejectsOtherSession(t *testing.T) {
	csrf := NewCSRF("clave-de-prueba", time.Hour)

	token, err := csrf.Generate("ses-1")
	require.NoError(t, err)
	require.ErrorIs(t, csrf.Validate(token, "ses-2"), ErrCSRFInvalid)
}

func TestCSRFRejectsExpiredToken(t *testing.T) {
	csrf := NewCSRF("clave-de-prueba", -time.Minute)

	token, err := csrf.Generate("ses-1")
	require.NoError(t, err)
	require.ErrorIs(t, csrf.Validate(token, "ses-1"), ErrCSRFInvalid)
}

func TestCSRFRejectsForeignSignature(t *testing.T) {
	emisor := NewCSRF("clave-a", time.Hour)
	receptor := NewCSRF("clave-b", time.Hour)

	token, err := emisor.Generate("ses-1")
	require.NoError(t, err)
	require.ErrorIs(t, receptor.Validate(token, "ses-1"), ErrCSRFInvalid)
}

func TestCSRFPreLoginTokenBindsEmptySession(t *testing.T) {
	csrf := NewCSRF("clave-de-prueba", time.Hour)

	token, err := csrf.Generate("")
	require.NoError(t, err)
	require.NoError(t, csrf.Validate(token, ""))
	require.ErrorIs(t, csrf.Validate(token, "ses-1"), ErrCSRFInvalid)
}
