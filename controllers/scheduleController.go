package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"resmall-api-server/middlewares"
	"resmall-api-server/scheduler"
)

// ScheduleController manages the single recurring sync job.
type ScheduleController struct {
	Scheduler *scheduler.Scheduler
}

type scheduleInput struct {
	Cron string `json:"cron" validate:"required"`
}

// Create registers the recurring job. A second schedule while one is
// active is rejected with a conflict.
func (ct *ScheduleController) Create(c *fiber.Ctx) error {
	var in scheduleInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	status, err := ct.Scheduler.Add(in.Cron)
	if errors.Is(err, scheduler.ErrConflict) {
		return err
	}
	if err != nil {
		// gocron could not parse the expression
		return fiber.NewError(fiber.StatusBadRequest, "invalid cron expression")
	}

	return c.JSON(ct.render(status))
}

// Delete removes the recurring job.
func (ct *ScheduleController) Delete(c *fiber.Ctx) error {
	if err := ct.Scheduler.Remove(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"running": false})
}

// Health reports whether the job is registered and when it fires next.
// Public: load balancers probe it without credentials.
func (ct *ScheduleController) Health(c *fiber.Ctx) error {
	status, err := ct.Scheduler.Get()
	if err != nil {
		return c.JSON(fiber.Map{"running": false})
	}
	return c.JSON(ct.render(status))
}

func (ct *ScheduleController) render(status scheduler.Status) fiber.Map {
	return fiber.Map{
		"nextDate": status.NextRun.In(ct.Scheduler.Location()).Format(time.RFC3339),
		"running":  status.Running,
	}
}
