package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/moogar0880/problems"
)

// actorKey is the fiber.Locals key the middleware stores the caller under.
const actorKey = "newsdesk.actor"

var errMissingToken = errors.New("missing bearer token")

// Middleware returns a fiber handler that decodes the HS256 bearer token into
// an Actor. Token issuance lives upstream; this only verifies the signature
// and lifts the sub/role claims.
func Middleware(secret []byte) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, err := actorFromHeader(c.Get(fiber.HeaderAuthorization), secret)
		if err != nil {
			problem := problems.NewStatusProblem(401).
				WithInstance(c.Path()).
				WithType("unauthorized").
				WithDetail(err.Error())

			return c.Status(fiber.StatusUnauthorized).JSON(problem)
		}

		c.Locals(actorKey, actor)

		return c.Next()
	}
}

// ActorFromContext returns the authenticated caller stored by Middleware.
func ActorFromContext(c fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(actorKey).(models.Actor)

	return actor, ok
}

func actorFromHeader(header string, secret []byte) (models.Actor, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return models.Actor{}, errMissingToken
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	sub, _ := claims["sub"].(string)

	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return models.Actor{}, errors.New("token missing sub or role claim")
	}

	return models.Actor{ID: sub, Role: models.Role(role)}, nil
}
