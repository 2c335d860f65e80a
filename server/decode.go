package server

import (
	"encoding/json"
	"errors"
	"io"

	"contact-gateway/contact"
)

var (
	errNotObject    = errors.New("request body must be a JSON object")
	errTrailingData = errors.New("request body has data after the JSON object")
)

// decodeSubmission aceita exatamente um objeto JSON; null, arrays, escalares
// e qualquer coisa depois do objeto são erro.
func decodeSubmission(body io.Reader) (contact.Submission, error) {
	dec := json.NewDecoder(body)

	var sub *contact.Submission
	if err := dec.Decode(&sub); err != nil {
		return contact.Submission{}, err
	}
	if sub == nil {
		return contact.Submission{}, errNotObject
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return contact.Submission{}, err
	}
	return *sub, nil
}
