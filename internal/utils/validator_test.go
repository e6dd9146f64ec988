package utils

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email    *string `json:"email" binding:"required"`
	Password *string `json:"password" binding:"required"`
}

func TestFormatBindingError_UsesJSONNames(t *testing.T) {
	InitValidator()

	err := binding.Validator.ValidateStruct(&sampleRequest{})
	assert.Equal(t, "email is required; password is required", FormatBindingError(err))
}

func TestFormatBindingError_DecodeErrors(t *testing.T) {
	var v map[string]string
	syntaxErr := json.Unmarshal([]byte("{oops"), &v)
	assert.Equal(t, "Invalid JSON body", FormatBindingError(syntaxErr))

	var n struct {
		Age int `json:"age"`
	}
	typeErr := json.Unmarshal([]byte(`{"age":"old"}`), &n)
	assert.Equal(t, "age has an invalid type", FormatBindingError(typeErr))

	assert.Equal(t, "Invalid request body", FormatBindingError(errors.New("boom")))
}
