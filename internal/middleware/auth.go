// Package middleware contains HTTP middleware functions for the Tour Series API.
// Middleware sits between the HTTP server and route handlers — it runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like authentication and role checks.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/caddiecup/tour-series/internal/config"
	"github.com/caddiecup/tour-series/internal/models"
)

// Claims defines the data we expect inside a Clerk JWT payload.
// Clerk's default token includes the standard fields (Subject = Clerk user ID,
// expiry, etc.); the custom claims come from the Clerk dashboard JWT template:
//
//	"role":  "{{user.public_metadata.role}}"
//	"email": "{{user.primary_email_address}}"
//	"name":  "{{user.full_name}}"
//
// Without those template entries, role defaults to "user" and email/name fall
// back to placeholders.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth returns a Fiber middleware handler that:
//  1. Validates the JWT from the "Authorization: Bearer <token>" header
//  2. Finds the matching operator in our database (or creates one on first visit)
//  3. Syncs the operator's role from the JWT into the database
//  4. Stores the internal UUID and role in the request context (c.Locals)
//     so downstream handlers can read them without re-parsing the token
//
// Note these are platform Users (operators), not Players — players come from
// uploaded result sheets and never authenticate.
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// TODO: replace ParseUnverified with full JWKS signature verification.
		// ParseUnverified skips signature checking — fine for development but
		// MUST be replaced before production. Verification prevents token forgery.
		token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		// claims.Subject is the standard JWT "sub" field — Clerk sets it to
		// the Clerk user ID.
		clerkUserID := claims.Subject
		if clerkUserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		// Lazy user sync: the first time an operator hits any authenticated
		// endpoint, we create their record; afterwards we just look them up.
		role := roleFromClaim(claims.Role)

		email := claims.Email
		if email == "" {
			// Placeholder like "user_2abc123@clerk.local" — clearly not real,
			// and unique per user, replaced once the JWT template is set up.
			email = fmt.Sprintf("%s@clerk.local", clerkUserID)
		}

		name := claims.Name
		if name == "" {
			name = "User"
		}

		var user models.User
		result := db.Where("clerk_id = ?", clerkUserID).First(&user)

		if result.Error != nil {
			// gorm.ErrRecordNotFound is the expected "not found" answer;
			// anything else is a real database problem.
			if result.Error != gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}

			user = models.User{
				ClerkID:     &clerkUserID,
				DisplayName: name,
				Email:       email,
				Role:        role,
			}
			if err := db.Create(&user).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create user record",
				})
			}
		} else {
			// Sync the role in case it changed in Clerk since last request.
			if user.Role != role && claims.Role != "" {
				db.Model(&user).Update("role", role)
				user.Role = role
			}
		}

		// c.Locals is a key-value store scoped to this single request.
		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))

		return c.Next()
	}
}

// roleFromClaim converts the raw role string from the JWT into our typed
// UserRole enum, defaulting to "user" (least privileged) when missing or
// unrecognised.
func roleFromClaim(s string) models.UserRole {
	switch s {
	case "admin":
		return models.UserRoleAdmin
	case "manager":
		return models.UserRoleManager
	default:
		return models.UserRoleUser
	}
}
