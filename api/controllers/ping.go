package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/haulmarket/api/responses"
	"github.com/angelmondragon/haulmarket/pkg/config"
)

type pingResponse struct {
	Service string    `json:"service"`
	Env     string    `json:"env"`
	Status  string    `json:"status"`
	Time    time.Time `json:"time"`
}

// PublicPing answers unauthenticated reachability checks from edge health checkers.
func PublicPing(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pingResponse{
			Service: serviceName,
			Env:     cfg.App.Env,
			Status:  "ok",
			Time:    time.Now().UTC(),
		})
	}
}
