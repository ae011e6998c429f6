package middlewares

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	authHeader  = "Authorization"
	basicPrefix = "Basic "
)

var (
	credsOnce    sync.Once
	executorID   string
	executorPass string
	credsErr     error
)

func loadExecutorCreds() error {
	credsOnce.Do(func() {
		executorID = os.Getenv("EXECUTOR_ID")
		executorPass = os.Getenv("EXECUTOR_PASSWORD")
		if strings.TrimSpace(executorID) == "" || strings.TrimSpace(executorPass) == "" {
			credsErr = errors.New("executor credentials not configured (set EXECUTOR_ID and EXECUTOR_PASSWORD)")
		}
	})
	return credsErr
}

// passwordMatches accepts either a plaintext EXECUTOR_PASSWORD or a
// bcrypt hash of it; both compare in constant time.
func passwordMatches(configured, given string) bool {
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(given)) == 1
}

// BasicAuth guards the trigger and schedule endpoints with HTTP Basic
// auth against the configured executor credentials.
func BasicAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := loadExecutorCreds(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "server auth not configured",
			})
		}

		h := c.Get(authHeader)
		if h == "" || !strings.HasPrefix(h, basicPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing/invalid Authorization header"})
		}

		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(h[len(basicPrefix):]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid basic credentials"})
		}

		id, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid basic credentials"})
		}

		if subtle.ConstantTimeCompare([]byte(id), []byte(executorID)) != 1 || !passwordMatches(executorPass, password) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid basic credentials"})
		}

		return c.Next()
	}
}
