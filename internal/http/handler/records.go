package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"travelapi/internal/model"
	"travelapi/internal/service"
	"travelapi/internal/validator"
)

// bulkCreateResponse lists the ids assigned to a batch insert.
type bulkCreateResponse struct {
	IDs []string `json:"ids"`
}

// CreateRecord godoc
// @Summary      Create a record
// @Description  Validates the JSON body against the entity schema and stores it.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity  path      string  true  "Entity name"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  errorPayload
// @Failure      404     {object}  errorPayload
// @Failure      409     {object}  errorPayload
// @Failure      422     {object}  errorPayload
// @Router       /records/{entity} [post]
func CreateRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if !gjson.ValidBytes(body) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		var opts []validator.Option
		if parsed := gjson.ParseBytes(body); parsed.IsObject() {
			var keys []string
			parsed.ForEach(func(key, _ gjson.Result) bool {
				keys = append(keys, key.String())
				return true
			})
			opts = append(opts, validator.WithKeyOrder(keys))
		}

		var record any
		if err := json.Unmarshal(body, &record); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		stored, err := svc.CreateOne(c.UserContext(), c.Params("entity"), record, opts...)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stored.Flatten())
	}
}

// CreateRecords godoc
// @Summary      Bulk-create records
// @Description  Stores a JSON array of pre-validated records in one statement.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        entity  path      string  true  "Entity name"
// @Success      201     {object}  bulkCreateResponse
// @Failure      400     {object}  errorPayload
// @Failure      404     {object}  errorPayload
// @Failure      500     {object}  errorPayload
// @Router       /records/{entity}/bulk [post]
func CreateRecords(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON array")
		}
		var records []model.Record
		if err := json.Unmarshal(body, &records); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "every element must be a JSON object")
		}

		ids, err := svc.CreateMany(c.UserContext(), c.Params("entity"), records)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(bulkCreateResponse{IDs: ids})
	}
}

// ListRecords godoc
// @Summary      List records
// @Tags         records
// @Produce      json
// @Param        entity  path      string  true   "Entity name"
// @Param        limit   query     int     false  "Page size"  default(10)
// @Param        offset  query     int     false  "Offset"     default(0)
// @Success      200     {object}  service.RecordListResult
// @Failure      400     {object}  errorPayload
// @Failure      404     {object}  errorPayload
// @Router       /records/{entity} [get]
func ListRecords(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), c.Params("entity"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetRecord godoc
// @Summary      Get a record by id
// @Tags         records
// @Produce      json
// @Param        entity  path      string  true  "Entity name"
// @Param        id      path      string  true  "Record id"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  errorPayload
// @Failure      404     {object}  errorPayload
// @Router       /records/{entity}/{id} [get]
func GetRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), c.Params("entity"), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec.Flatten())
	}
}

// DeleteRecord godoc
// @Summary      Delete a record by id
// @Tags         records
// @Param        entity  path  string  true  "Entity name"
// @Param        id      path  string  true  "Record id"
// @Success      204
// @Failure      400     {object}  errorPayload
// @Failure      404     {object}  errorPayload
// @Router       /records/{entity}/{id} [delete]
func DeleteRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), c.Params("entity"), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
