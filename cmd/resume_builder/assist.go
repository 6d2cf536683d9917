package main

import (
	"github.com/jonathan/resume-builder/internal/assist"
)

var backendURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "AI proxy base URL (default from config or BACKEND_URL)")
}

// proxyClient returns a client for the configured AI proxy
func proxyClient() *assist.Client {
	url := backendURL
	if url == "" {
		url = cfg.BackendURL
	}
	return assist.NewClient(url, assist.WithLogger(logger))
}

// modelFlag returns the requested model, falling back to the config
func modelFlag(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Model
}
