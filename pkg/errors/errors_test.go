package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Kind, ErrInternal.Message)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Something went wrong, please try again later.: connection refused", err.Error())
	assert.Equal(t, "Something went wrong, please try again later.", err.Reply())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	// Typed errors pass through, even wrapped.
	wrapped := Wrap(ErrLinkInvalid, ErrLinkInvalid.Code, ErrLinkInvalid.Kind, ErrLinkInvalid.Message)
	got := FromError(wrapped)
	assert.Equal(t, ErrLinkInvalid.Code, got.Code)

	// Plain errors normalise to the generic internal reply.
	got = FromError(stderrors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, ErrInternal.Message, got.Reply())
}

func TestClone(t *testing.T) {
	clone := Clone(ErrCodeNotFound, "custom message")
	assert.Equal(t, ErrCodeNotFound.Code, clone.Code)
	assert.Equal(t, "custom message", clone.Message)

	// Original sentinel remains untouched.
	assert.Equal(t, "Either the code is invalid or you are not the owner of these files.", ErrCodeNotFound.Message)

	same := Clone(ErrCodeNotFound, "")
	assert.Equal(t, ErrCodeNotFound.Message, same.Message)
}
