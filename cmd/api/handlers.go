package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facilitymanager1/fieldsync-sub006/internal/application"
	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/middleware"
)

// locationRequest is the wire form of a GPS fix
type locationRequest struct {
	Latitude  float64    `json:"latitude" binding:"latitude"`
	Longitude float64    `json:"longitude" binding:"longitude"`
	Accuracy  float64    `json:"accuracy" binding:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp"`
	Source    string     `json:"source" binding:"omitempty,location_source"`
}

func (r locationRequest) toDomain() domain.Location {
	loc := domain.Location{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Accuracy:  r.Accuracy,
		Source:    domain.LocationSource(r.Source),
	}
	if r.Timestamp != nil {
		loc.Timestamp = *r.Timestamp
	} else {
		loc.Timestamp = time.Now().UTC()
	}
	if loc.Source == "" {
		loc.Source = domain.SourceGPS
	}
	return loc
}

func startShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			WorkerID       string    `json:"workerId" binding:"required,worker_id"`
			SiteID         string    `json:"siteId" binding:"omitempty,site_id"`
			ScheduledStart time.Time `json:"scheduledStart" binding:"required"`
			ScheduledEnd   time.Time `json:"scheduledEnd" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"worker.id": req.WorkerID,
			"site.id":   req.SiteID,
		})

		cmd := application.StartShiftCommand{
			WorkerID:       req.WorkerID,
			SiteID:         req.SiteID,
			ScheduledStart: req.ScheduledStart,
			ScheduledEnd:   req.ScheduledEnd,
		}

		shift, err := service.StartShift(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, shift)
	}
}

func getShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
		})

		shift, err := service.GetShift(c.Request.Context(), application.GetShiftQuery{ShiftID: shiftID})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, shift)
	}
}

func transitionHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
		})

		var req struct {
			ToState  string           `json:"toState" binding:"required,oneof=idle checking_in in_shift on_break checking_out post_shift completed cancelled"`
			Actor    string           `json:"actor" binding:"omitempty,oneof=user system geofence admin"`
			Reason   string           `json:"reason" binding:"omitempty,safe_string"`
			Location *locationRequest `json:"location"`
			At       *time.Time       `json:"at"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.to_state": req.ToState,
		})

		cmd := application.RequestTransitionCommand{
			ShiftID: shiftID,
			ToState: domain.ShiftState(req.ToState),
			Actor:   domain.Actor(req.Actor),
			Reason:  req.Reason,
		}
		if cmd.Actor == "" {
			cmd.Actor = domain.ActorUser
		}
		if req.Location != nil {
			loc := req.Location.toDomain()
			cmd.Location = &loc
		}
		if req.At != nil {
			cmd.At = *req.At
		}

		shift, err := service.RequestTransition(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, shift)
	}
}

func enterSiteHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")

		var req struct {
			SiteID   string          `json:"siteId" binding:"required,site_id"`
			Location locationRequest `json:"location" binding:"required"`
			Planned  bool            `json:"planned"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
			"site.id":  req.SiteID,
		})

		cmd := application.EnterSiteCommand{
			ShiftID:  shiftID,
			SiteID:   req.SiteID,
			Location: req.Location.toDomain(),
			Planned:  req.Planned,
		}

		visit, err := service.EnterSite(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, visit)
	}
}

func exitSiteHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
		})

		var req struct {
			Location  locationRequest `json:"location" binding:"required"`
			EventKind string          `json:"eventKind" binding:"omitempty,oneof=exit emergency_exit timeout_exit"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.ExitSiteCommand{
			ShiftID:   shiftID,
			Location:  req.Location.toDomain(),
			EventKind: domain.VisitEventKind(req.EventKind),
		}

		visit, err := service.ExitSite(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, visit)
	}
}

func startBreakHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
		})

		var req struct {
			BreakType       string           `json:"breakType" binding:"required,break_type"`
			PlannedDuration int              `json:"plannedDuration" binding:"omitempty,gte=0"`
			Authorized      *bool            `json:"authorized"`
			Actor           string           `json:"actor" binding:"omitempty,oneof=user system geofence admin"`
			Location        *locationRequest `json:"location"`
			At              *time.Time       `json:"at"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.StartBreakCommand{
			ShiftID:         shiftID,
			BreakType:       domain.BreakType(req.BreakType),
			PlannedDuration: req.PlannedDuration,
			Authorized:      req.Authorized,
			Actor:           domain.Actor(req.Actor),
		}
		if req.Location != nil {
			loc := req.Location.toDomain()
			cmd.Location = &loc
		}
		if req.At != nil {
			cmd.At = *req.At
		}

		bp, err := service.StartBreak(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, bp)
	}
}

func endBreakHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		shiftID := c.Param("shiftId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"shift.id": shiftID,
		})

		var req struct {
			Actor    string           `json:"actor" binding:"omitempty,oneof=user system geofence admin"`
			Location *locationRequest `json:"location"`
			At       *time.Time       `json:"at"`
		}
		// Body is optional for ending a break
		if c.Request.ContentLength > 0 {
			if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
				responder.RespondWithAppError(appErr)
				return
			}
		}

		cmd := application.EndBreakCommand{
			ShiftID: shiftID,
			Actor:   domain.Actor(req.Actor),
		}
		if req.Location != nil {
			loc := req.Location.toDomain()
			cmd.Location = &loc
		}
		if req.At != nil {
			cmd.At = *req.At
		}

		bp, err := service.EndBreak(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, bp)
	}
}

func getActiveShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		workerID := c.Param("workerId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"worker.id": workerID,
		})

		shift, err := service.GetActiveShift(c.Request.Context(), application.GetActiveShiftQuery{WorkerID: workerID})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, shift)
	}
}

func listShiftsHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		workerID := c.Param("workerId")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"worker.id": workerID,
		})

		query := application.ListShiftsQuery{
			WorkerID: workerID,
			Limit:    limit,
			Offset:   offset,
		}

		shifts, err := service.ListShifts(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, shifts)
	}
}
