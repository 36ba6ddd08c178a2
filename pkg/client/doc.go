// Package client connects to the NEA device service, correlates responses with
// the requests that caused them and fans events out to subscribers.
//
//go:generate go tool mockgen -destination=mock_transport.go -package=client github.com/nymi/nea-helpers/pkg/client Transport
package client
