// Package redis provides env-driven configuration and a retrying connector
// for go-redis clients. The one-time code store in pkg/onetime is its main
// consumer in this kit.
package redis
