package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reliefline/server/internal/lib/geo"
	"github.com/reliefline/server/internal/lib/profile"
)

// profileRequest is the body of POST /v1/profile. Exactly one of Coordinates
// or EncodedPolyline must be set.
type profileRequest struct {
	Coordinates     []geo.Point `json:"coordinates"`
	EncodedPolyline string      `json:"encoded_polyline"`
}

// profileStatus is the acknowledgement returned when sampling starts.
type profileStatus struct {
	Status   string `json:"status"`
	Vertices int    `json:"vertices"`
}

// CreateProfileHandler starts sampling a new path. Sampling is asynchronous:
// the response acknowledges the session and clients follow progress via
// GET /v1/profile or the WebSocket push.
func CreateProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body: "+err.Error())
		}

		if len(req.Coordinates) > 0 && req.EncodedPolyline != "" {
			return errBadRequest(c, "provide either coordinates or encoded_polyline, not both")
		}

		vertices := req.Coordinates
		if req.EncodedPolyline != "" {
			decoded, err := geo.DecodePolyline(req.EncodedPolyline)
			if err != nil {
				return errBadRequest(c, "invalid encoded_polyline: "+err.Error())
			}
			vertices = decoded
		}

		for i, p := range req.Coordinates {
			if _, err := geo.NewPoint(p.Lat, p.Lng); err != nil {
				return errBadRequest(c, fmt.Sprintf("coordinates[%d]: %v", i, err))
			}
		}

		if err := deps.Profiles.StartProfile(vertices); err != nil {
			if errors.Is(err, profile.ErrInvalidPath) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.Status(fiber.StatusAccepted).JSON(profileStatus{
			Status:   deps.Profiles.Status().String(),
			Vertices: len(vertices),
		})
	}
}

// GetProfileHandler returns the latest published snapshot.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Profiles.Latest())
	}
}

// DeleteProfileHandler cancels any sampling in flight and clears the profile.
func DeleteProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Profiles.Reset()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ExportKMLHandler serializes the latest profile as a KML LineString.
func ExportKMLHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latest := deps.Profiles.Latest()
		if len(latest.Series) == 0 {
			return errNotFound(c, "no profile sampled yet")
		}

		var buf bytes.Buffer
		name := fmt.Sprintf("Elevation profile %s", time.Now().UTC().Format("2006-01-02"))
		if err := profile.WriteKML(&buf, name, latest.Series); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set(fiber.HeaderContentType, "application/vnd.google-earth.kml+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="profile.kml"`)
		return c.Send(buf.Bytes())
	}
}

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).String(),
			"state":  deps.Profiles.Status().String(),
		})
	}
}
