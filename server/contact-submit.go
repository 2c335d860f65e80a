package server

import (
	"net/http"

	"contact-gateway/contact"
	"contact-gateway/contact/messages"
	"contact-gateway/httpjson"
	"contact-gateway/middleware/ratelimit"

	"github.com/go-chi/httplog/v2"
)

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (httpserver *HttpServer) submitContact(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	lang := httpserver.catalog.Match(r.Header.Get("Accept-Language"))

	res, err := httpserver.contact.Submit(r.Context(), contact.Attempt{
		Identity: httpserver.keyFn(r),
		Lang:     lang,
		Decode: func() (contact.Submission, error) {
			return decodeSubmission(http.MaxBytesReader(w, r.Body, httpserver.maxBody))
		},
	})
	if err != nil {
		httpjson.HandleError(logger, w, err, httpserver.catalog.T(lang, messages.KeyInternal))
		return
	}

	if httpserver.headers {
		ratelimit.SetDecisionHeaders(w, res.Decision)
	}
	if res.State == contact.StateRateLimited {
		ratelimit.SetRetryAfter(w, res.RetryAfter)
	}
	if rerr := res.Err(); rerr != nil {
		httpjson.HandleError(logger, w, rerr, "")
		return
	}

	logger.Info("contact submission accepted", "id", res.ID)
	httpjson.WriteJson(w, http.StatusOK, submitResponse{
		Success: true,
		Message: res.Message,
		ID:      res.ID,
	})
}
