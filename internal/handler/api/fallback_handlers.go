package api

import "net/http"

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, r, http.StatusNotFound, Rejection{Message: "This endpoint does not exist"})
	}
}

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, r, http.StatusMethodNotAllowed, Rejection{Message: "This method is not allowed"})
	}
}
