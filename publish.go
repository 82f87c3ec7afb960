/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/duplinskyp/buzzerAPP/game"
)

const (
	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
)

// roundPublisher sends a summary of every finished round to NATS. A nil
// *roundPublisher is valid and publishes nothing.
type roundPublisher struct {
	nc      *nats.Conn
	subject string
}

// newRoundPublisher returns nil when no NATS URL is configured.
func newRoundPublisher(cfg *Config) (*roundPublisher, error) {
	if cfg.natsURL == "" {
		return nil, nil
	}

	opts := []nats.Option{
		nats.Name("buzzer v" + releaseVersion),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Error().Err(err).Msg("NATS: Disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS: Reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS: Async error")
		}),
	}

	nc, err := nats.Connect(cfg.natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("subject", cfg.natsSubject).
		Msg("NATS: Publishing finished rounds")

	return &roundPublisher{nc: nc, subject: cfg.natsSubject}, nil
}

func (p *roundPublisher) publish(summary game.RoundSummary) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal round summary: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}

	return nil
}

// Close flushes pending publishes and closes the connection.
func (p *roundPublisher) Close() {
	if p == nil {
		return
	}

	if err := p.nc.Drain(); err != nil {
		log.Error().Err(err).Msg("NATS: Drain failed")
		p.nc.Close()
	}
}
