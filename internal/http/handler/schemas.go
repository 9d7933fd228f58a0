package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/schema"
)

// ListSchemas godoc
// @Summary  List registered entities
// @Tags     schemas
// @Produce  json
// @Success  200  {object}  map[string][]string
// @Router   /schemas [get]
func ListSchemas(reg *schema.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"entities": reg.Names()})
	}
}

// GetSchema godoc
// @Summary  Get the JSON schema of an entity
// @Tags     schemas
// @Produce  json
// @Param    entity  path      string  true  "Entity name"
// @Success  200     {object}  map[string]interface{}
// @Failure  404     {object}  errorPayload
// @Router   /schemas/{entity} [get]
func GetSchema(reg *schema.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		def, err := reg.Lookup(c.Params("entity"))
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_ENTITY", "unknown entity")
		}
		return c.JSON(def.JSONSchema())
	}
}
