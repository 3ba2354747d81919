package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
	"github.com/dmitrijs2005/ticketapi/internal/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) home(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Ticket-API!")
}

type authPayload struct {
	CompanyID string `json:"companyID"`
	Password  string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	body, err := requestBody(c)
	if err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was an error authenticating you with the server",
			"request body could not be read"))
		return
	}

	// the payload validator has already vetted the shape
	var payload authPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was an error authenticating you with the server",
			"request body could not be parsed as JSON"))
		return
	}

	authKey, err := s.auth.Authenticate(c.Request.Context(), payload.CompanyID, payload.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.fail(c, response.NewFailure(http.StatusUnauthorized,
				"The company ID or password was incorrect, please try again",
				"invalid company ID or password"))
			return
		}
		s.logger.Error(c.Request.Context(), "authentication failed", "error", err)
		response.NewFailure(http.StatusBadGateway,
			"There was an error authenticating you with the server",
			"an exception occurred while trying to query the database").Write(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authKey": authKey})
}

type employeePayload struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	AuthKey     string  `json:"authKey"`
}

func (s *Server) updateEmployee(c *gin.Context) {
	body, err := requestBody(c)
	if err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was an error updating your information",
			"request body could not be read"))
		return
	}

	var payload employeePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was an error updating your information",
			"request body could not be parsed as JSON"))
		return
	}

	profile := models.Profile{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
	}

	if err := s.auth.UpdateProfile(c.Request.Context(), payload.AuthKey, profile); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.fail(c, response.NewFailure(http.StatusUnauthorized,
				"There was an error updating your information",
				"session not found"))
			return
		}
		s.logger.Error(c.Request.Context(), "profile update failed", "error", err)
		response.NewFailure(http.StatusBadGateway,
			"There was an error updating your information",
			"the database server is not responding or is down").Write(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

type ticketPayload struct {
	Location    *string `json:"location"`
	Description string  `json:"description"`
	Photo       *string `json:"photo"`
	AuthKey     string  `json:"authKey"`
}

func (s *Server) submitTicket(c *gin.Context) {
	body, err := requestBody(c)
	if err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was trouble submitting your ticket to the database",
			"request body could not be read"))
		return
	}

	var payload ticketPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest,
			"There was trouble submitting your ticket to the database",
			"request body could not be parsed as JSON"))
		return
	}

	ticket := &models.Ticket{
		AuthKey:     payload.AuthKey,
		Description: payload.Description,
		Location:    payload.Location,
		Photo:       payload.Photo,
	}

	if _, err := s.tickets.Submit(c.Request.Context(), ticket); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.fail(c, response.NewFailure(http.StatusUnauthorized,
				"There was trouble submitting your ticket to the database",
				"session not found"))
			return
		}
		s.logger.Error(c.Request.Context(), "ticket submission failed", "error", err)
		response.NewFailure(http.StatusBadGateway,
			"There was trouble submitting your ticket to the database",
			"unable to reach the database").Write(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
