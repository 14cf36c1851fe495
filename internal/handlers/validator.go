package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errInvalidBody = errors.New("invalid request body")
