package server

import (
	"net/http"

	"contact-gateway/contact"
	"contact-gateway/contact/messages"
	"contact-gateway/httpjson"

	"github.com/go-chi/httplog/v2"
)

type validateResponse struct {
	Valid  bool                `json:"valid"`
	Errors contact.FieldErrors `json:"errors"`
}

// validateContact valida o formulário sem consumir cota do portão.
func (httpserver *HttpServer) validateContact(w http.ResponseWriter, r *http.Request) {
	lang := httpserver.catalog.Match(r.Header.Get("Accept-Language"))

	sub, err := decodeSubmission(http.MaxBytesReader(w, r.Body, httpserver.maxBody))
	if err != nil {
		httplog.LogEntry(r.Context()).Debug("malformed validate request", "error", err)
		httpjson.WriteErrorJson(w, http.StatusBadRequest, httpserver.catalog.T(lang, messages.KeyMalformed))
		return
	}

	errs := httpserver.contact.Check(sub, lang)
	httpjson.WriteJson(w, http.StatusOK, validateResponse{
		Valid:  errs.Valid(),
		Errors: errs,
	})
}
