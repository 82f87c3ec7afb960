/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics counts what the buzzer server has been doing since start.
type Metrics struct {
	activeConnections int64
	totalConnections  int64

	messagesReceived    int64
	messagesDropped     int64
	rateLimitViolations int64
	slowClientsDropped  int64

	roundsStarted  int64
	roundsFinished int64
	buzzes         int64

	startTime time.Time
}

func newMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

func (m *Metrics) connected() {
	atomic.AddInt64(&m.activeConnections, 1)
	atomic.AddInt64(&m.totalConnections, 1)
}

func (m *Metrics) disconnected() {
	atomic.AddInt64(&m.activeConnections, -1)
}

func (m *Metrics) received() {
	atomic.AddInt64(&m.messagesReceived, 1)
}

func (m *Metrics) dropped() {
	atomic.AddInt64(&m.messagesDropped, 1)
}

func (m *Metrics) rateLimited() {
	atomic.AddInt64(&m.rateLimitViolations, 1)
}

func (m *Metrics) slowClient() {
	atomic.AddInt64(&m.slowClientsDropped, 1)
}

func (m *Metrics) roundStarted() {
	atomic.AddInt64(&m.roundsStarted, 1)
}

func (m *Metrics) roundFinished() {
	atomic.AddInt64(&m.roundsFinished, 1)
}

func (m *Metrics) buzzed() {
	atomic.AddInt64(&m.buzzes, 1)
}

// MetricsSnapshot is a point-in-time copy of Metrics, served at /stats.
type MetricsSnapshot struct {
	ActiveConnections   int64 `json:"active_connections"`
	TotalConnections    int64 `json:"total_connections"`
	MessagesReceived    int64 `json:"messages_received"`
	MessagesDropped     int64 `json:"messages_dropped"`
	RateLimitViolations int64 `json:"rate_limit_violations"`
	SlowClientsDropped  int64 `json:"slow_clients_dropped"`

	RoundsStarted  int64 `json:"rounds_started"`
	RoundsFinished int64 `json:"rounds_finished"`
	Buzzes         int64 `json:"buzzes"`

	UptimeSeconds int64  `json:"uptime_seconds"`
	MemoryUsageMB uint64 `json:"memory_usage_mb"`
	NumGoroutines int    `json:"num_goroutines"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MetricsSnapshot{
		ActiveConnections:   atomic.LoadInt64(&m.activeConnections),
		TotalConnections:    atomic.LoadInt64(&m.totalConnections),
		MessagesReceived:    atomic.LoadInt64(&m.messagesReceived),
		MessagesDropped:     atomic.LoadInt64(&m.messagesDropped),
		RateLimitViolations: atomic.LoadInt64(&m.rateLimitViolations),
		SlowClientsDropped:  atomic.LoadInt64(&m.slowClientsDropped),
		RoundsStarted:       atomic.LoadInt64(&m.roundsStarted),
		RoundsFinished:      atomic.LoadInt64(&m.roundsFinished),
		Buzzes:              atomic.LoadInt64(&m.buzzes),
		UptimeSeconds:       int64(time.Since(m.startTime).Seconds()),
		MemoryUsageMB:       memStats.Alloc / 1024 / 1024,
		NumGoroutines:       runtime.NumGoroutine(),
	}
}
