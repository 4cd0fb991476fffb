package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"

	"github.com/turfnote/turfapi/ingest"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db       *bun.DB
	JWTKey   []byte
	validate *validator.Validate
	sync     *ingest.Service
}

// New creates a Handler with the given database connection, JWT signing key
// and sync service.
func New(db *bun.DB, jwtKey []byte, sync *ingest.Service) *Handler {
	return &Handler{
		db:       db,
		JWTKey:   jwtKey,
		validate: validator.New(),
		sync:     sync,
	}
}
