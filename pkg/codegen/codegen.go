// Package codegen generates short unique product codes.
//
// A candidate is drawn at random, checked for uniqueness via the caller's
// Exists function (which should run against the same transaction that will
// insert the row), and retried up to a small bound.
package codegen

import (
	"context"
	"fmt"
	"math/rand"

	"bodega/internal/core/apperror"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config holds code generation settings.
type Config struct {
	// Length of the generated code (default 7)
	Length int

	// MaxAttempts before giving up (default 10)
	MaxAttempts int
}

// DefaultConfig returns the settings used for product codes.
func DefaultConfig() Config {
	return Config{
		Length:      7,
		MaxAttempts: 10,
	}
}

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces unique codes with bounded retry.
type Generator struct {
	cfg Config
}

// New creates a Generator.
func New(cfg Config) *Generator {
	if cfg.Length <= 0 {
		cfg.Length = 7
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &Generator{cfg: cfg}
}

// Generate returns a code not yet taken according to exists.
// Fails with CODE_GENERATION_EXHAUSTED after MaxAttempts collisions.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		code := g.candidate()

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperror.NewCodeExhausted(g.cfg.MaxAttempts)
}

func (g *Generator) candidate() string {
	buf := make([]byte, g.cfg.Length)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(buf)
}
