package api

import (
	"serwer-kont/internal/account"
	"serwer-kont/internal/config"
	"serwer-kont/internal/database"
	"serwer-kont/internal/referral"
	"serwer-kont/internal/websocket"
)

type Server struct {
	config      *config.Config
	store       *database.Store
	provisioner *account.Provisioner
	// referral is a nullable capability: nil means the platform runs
	// without referral codes and handlers skip the lookup.
	referral *referral.Service
	wsHub    *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, provisioner *account.Provisioner, referralSvc *referral.Service, wsHub *websocket.Hub) *Server {
	return &Server{
		config:      cfg,
		store:       store,
		provisioner: provisioner,
		referral:    referralSvc,
		wsHub:       wsHub,
	}
}
