// Package identity resolves the authenticated user of a request from the JWT that
// the auth middleware stored in the Fiber context.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is where the JWT middleware stores the parsed token.
const ContextKey = "user"

var ErrUnauthenticated = errors.New("no authenticated user")

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// CurrentUser returns the user carried by the request's access token.
func CurrentUser(c *fiber.Ctx) (*User, error) {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}

	user := &User{ID: id}
	user.Email, _ = claims["email"].(string)
	user.DisplayName, _ = claims["name"].(string)
	return user, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
