package network

import "errors"

var (
	ErrConnectionClosed        = errors.New("connection closed")
	ErrInvalidTLSConfig        = errors.New("invalid TLS configuration")
	ErrKeepAliveTimeout        = errors.New("keep-alive timeout")
	ErrMaxRetriesExceeded      = errors.New("max retries exceeded")
	ErrInvalidBackoffConfig    = errors.New("invalid backoff configuration")
	ErrConnectionNotFound      = errors.New("connection not found")
	ErrCertificateVerification = errors.New("certificate verification failed")
	ErrGracefulShutdownTimeout = errors.New("graceful shutdown timeout")
)
