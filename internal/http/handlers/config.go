package handlers

import (
	"sync"

	intconfig "onnrides/internal/config"
	"onnrides/internal/notifications"
)

var (
	configMu  sync.RWMutex
	jwtSecret []byte
	notifier  notifications.Sender = notifications.NopSender{}
)

// Configure wires environment derived settings and the message sender into
// the handler package. Called once from the router.
func Configure(env intconfig.Env, sender notifications.Sender) {
	configMu.Lock()
	defer configMu.Unlock()
	jwtSecret = []byte(env.JWTSecret)
	if sender != nil {
		notifier = sender
	}
}

func authSecret() []byte {
	configMu.RLock()
	defer configMu.RUnlock()
	return jwtSecret
}

func messageSender() notifications.Sender {
	configMu.RLock()
	defer configMu.RUnlock()
	return notifier
}
