package server

import (
	"net/http"

	"contact-gateway/httpjson"
)

func (httpserver *HttpServer) contactStats(w http.ResponseWriter, r *http.Request) {
	if httpserver.stats == nil {
		httpjson.WriteErrorJson(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	httpjson.WriteJson(w, http.StatusOK, httpserver.stats.Snapshot())
}
