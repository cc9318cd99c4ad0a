package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy     = "healthy"
	statusUnhealthy   = "unhealthy"
	statusUnavailable = "unavailable"
	readinessTimeout  = 5 * time.Second
)

// LivenessCheck reports that the process is serving.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

func (s *Server) databaseStatus(ctx context.Context) string {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return statusUnhealthy
	}
	return statusHealthy
}

// redisStatus is "unavailable" when the server runs without a cache.
func (s *Server) redisStatus(ctx context.Context) string {
	if s.redis == nil {
		return statusUnavailable
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}

// ReadinessCheck pings the database and Redis. A configured but unreachable
// Redis fails readiness; running without one does not.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	checks := fiber.Map{
		"database": s.databaseStatus(ctx),
		"redis":    s.redisStatus(ctx),
	}

	overall, code := statusHealthy, fiber.StatusOK
	for _, v := range checks {
		if v == statusUnhealthy {
			overall, code = statusUnhealthy, fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{"status": overall, "checks": checks, "time": time.Now()})
}
