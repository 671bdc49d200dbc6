package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New("test").Error("failed to reach %s", cause, "graph api")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to reach graph api: connection refused", err.Error())
}

func TestNamed(t *testing.T) {
	l := New("API").Named("publish")
	assert.Equal(t, "API/publish", l.serviceName)
}
