package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// AccessTokenClaims is the typed JWT this service accepts. Token issuance is
// the identity provider's job; only validation happens here.
type AccessTokenClaims struct {
	ActorID uuid.UUID       `json:"actor_id"`
	Role    enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
