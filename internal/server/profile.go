package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	profiledomain "github.com/vendora/vendora/internal/profile/domain"
)

type createProfileRequest struct {
	Email          string                     `json:"email"`
	Name           string                     `json:"name"`
	Password       string                     `json:"password"`
	Role           string                     `json:"role"`
	AccountType    string                     `json:"account_type"`
	OrganizationID *string                    `json:"organization_id"`
	Permissions    profiledomain.Permissions  `json:"permissions"`
}

type updateProfileRequest struct {
	Name           *string                    `json:"name"`
	Role           *string                    `json:"role"`
	AccountType    *string                    `json:"account_type"`
	OrganizationID *string                    `json:"organization_id"`
	Permissions    *profiledomain.Permissions `json:"permissions"`
}

func (s *Server) CreateProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	orgID, err := optionalSnowflake(req.OrganizationID)
	if err != nil {
		AbortWithError(c, profiledomain.ErrInvalidID)
		return
	}

	profile, err := s.profileSvc.Create(c.Request.Context(), profiledomain.CreateProfileRequest{
		Email:          req.Email,
		Name:           req.Name,
		Password:       req.Password,
		Role:           req.Role,
		AccountType:    req.AccountType,
		OrganizationID: orgID,
		Permissions:    req.Permissions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	orgID, err := optionalSnowflake(req.OrganizationID)
	if err != nil {
		AbortWithError(c, profiledomain.ErrInvalidID)
		return
	}

	profile, err := s.profileSvc.Update(c.Request.Context(), profiledomain.UpdateProfileRequest{
		ID:             c.Param("id"),
		Name:           req.Name,
		Role:           req.Role,
		AccountType:    req.AccountType,
		OrganizationID: orgID,
		Permissions:    req.Permissions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) GetProfile(c *gin.Context) {
	profile, err := s.profileSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) ListProfiles(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("organization_id"))
	if raw == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		AbortWithError(c, profiledomain.ErrInvalidID)
		return
	}

	profiles, err := s.profileSvc.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func optionalSnowflake(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseRFC3339(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
