// Package identity resolves the authenticated rider from a verified bearer token.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is where the JWT middleware stores the verified token.
const LocalsKey = "user"

var ErrNoIdentity = errors.New("no authenticated user")

// UserID extracts the user UUID from the verified token's sub claim.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrNoIdentity
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrNoIdentity
	}
	return id, nil
}
