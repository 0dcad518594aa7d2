package controllers

import (
	"net/http"

	"github.com/chatterboxhq/chatterbox-backend/api/responses"
)

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
