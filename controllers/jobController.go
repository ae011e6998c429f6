package controllers

import (
	"github.com/gofiber/fiber/v2"

	"resmall-api-server/erp"
	"resmall-api-server/stock"
)

// JobController exposes the manual sync triggers and the session-id
// inspection endpoint.
type JobController struct {
	Runner   *stock.Runner
	Sessions *erp.SessionCache
}

// Execute runs a full stock sync and returns the updated rows.
func (ct *JobController) Execute(c *fiber.Ctx) error {
	rows, err := ct.Runner.ExecuteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// ExecuteOne syncs a single item and its options.
func (ct *JobController) ExecuteOne(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id")
	}

	rows, err := ct.Runner.ExecuteOne(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// Issue returns the current ERP session id, logging in if the cached
// one has gone stale.
func (ct *JobController) Issue(c *fiber.Ctx) error {
	sessionID, err := ct.Sessions.SessionID(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sessionId": sessionID})
}
