package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
)

func (s *Server) CreateMachine(c *gin.Context) {
	var req machinedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	machine, err := s.machineSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, machine)
}

func (s *Server) UpdateMachine(c *gin.Context) {
	var req machinedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	machine, err := s.machineSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

func (s *Server) GetMachine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	machine, err := s.machineSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

func (s *Server) ListMachines(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := machinedomain.ListRequest{
		Status: strings.TrimSpace(c.Query("status")),
		Page:   page,
	}
	if raw := strings.TrimSpace(c.Query("customer_profile_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, machinedomain.ErrInvalidCustomer)
			return
		}
		req.CustomerProfileID = &id
	}

	// Customers only ever see their own machines.
	if actor, ok := actorFrom(c); ok && !actor.IsAdmin() {
		req.CustomerProfileID = &actor.ProfileID
	}

	machines, pageInfo, err := s.machineSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"machines": machines, "page_info": pageInfo})
}

func (s *Server) DeleteMachine(c *gin.Context) {
	if err := s.machineSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// MachineCheckIn is the device heartbeat. The machine must already be
// provisioned; unknown machine ids are rejected.
func (s *Server) MachineCheckIn(c *gin.Context) {
	var req machinedomain.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if s.limiter.Enabled() {
		decision, err := s.limiter.AllowCheckin(c.Request.Context(), req.MachineID)
		if err == nil && !decision.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "device_checkin")
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		token, ok, lockErr := s.limiter.TryLockCheckin(c.Request.Context(), req.MachineID)
		if lockErr == nil && !ok {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		if lockErr == nil {
			defer func() {
				_ = s.limiter.ReleaseCheckin(c.Request.Context(), req.MachineID, token)
			}()
		}
	}

	machine, err := s.machineSvc.CheckIn(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}
