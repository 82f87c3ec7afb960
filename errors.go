/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogging(cfg *Config) {
	zerolog.TimeFieldFormat = logDate

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: logDate,
	})
}

// drainErrors logs handler write failures until errs is closed.
func drainErrors(errs <-chan error) {
	for err := range errs {
		log.Debug().Err(err).Msg("SERVE: Write failed")
	}
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(`<link rel="stylesheet" href="` + cfg.prefix + `/assets/buzzer/app.css">`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf(`<body><main class="error"><a href="%s/">%s</a></main></body></html>`,
		cfg.prefix, html.EscapeString(body)))

	return htmlBody.String()
}
