// Package httpjson escreve as respostas JSON do gateway.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// ErrorResponse é o corpo de qualquer resposta de erro: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PublicError é implementado por erros que sabem o que mostrar ao usuário e
// com qual status HTTP. Todo o resto vira 500 genérico.
type PublicError interface {
	error
	PublicMessage() string
	HttpStatusCode() int
}

func WriteJson(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteErrorJson(w http.ResponseWriter, statusCode int, msg string) {
	WriteJson(w, statusCode, ErrorResponse{Error: msg})
}

// HandleError responde com a mensagem pública do erro. A causa só vai para o log.
// internalMsg é usado quando o erro não é um PublicError.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error, internalMsg string) {
	var pubErr PublicError
	if errors.As(err, &pubErr) {
		status := pubErr.HttpStatusCode()
		if status >= http.StatusInternalServerError {
			logger.Error("internal server error", "error", err)
		} else {
			logger.Debug("request rejected", "status", status, "error", err)
		}
		WriteErrorJson(w, status, pubErr.PublicMessage())
		return
	}

	logger.Error("internal server error", "error", err)
	if internalMsg == "" {
		internalMsg = http.StatusText(http.StatusInternalServerError)
	}
	WriteErrorJson(w, http.StatusInternalServerError, internalMsg)
}
