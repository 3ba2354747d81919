package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dmitrijs2005/ticketapi/internal/server/request"
	"github.com/dmitrijs2005/ticketapi/internal/server/response"
	"github.com/gin-gonic/gin"
)

const bodyKey = "cachedRequestBody"

// authNiceMessage is the uniform user-facing message for every gate failure,
// so callers cannot distinguish a missing key from an invalid one.
const authNiceMessage = "There was an error authenticating you with the server"

// requestBody returns the raw request body, reading it at most once per
// request so middleware and handler can both inspect it.
func requestBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(bodyKey); ok {
		return v.([]byte), nil
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Set(bodyKey, data)
	return data, nil
}

// fail logs the debug message of a failure and writes it as the response,
// aborting the rest of the handler chain.
func (s *Server) fail(c *gin.Context, f *response.Failure) {
	s.logger.Error(c.Request.Context(), f.DebugMessage, "status", f.Status, "path", c.FullPath())
	f.Write(c)
}

// requireAuth guards a protected route: it extracts authKey from the request
// body and only lets the chain continue if the session store reports the key
// as live. It runs before the route's own payload validation.
func (s *Server) requireAuth(c *gin.Context) {
	body, err := requestBody(c)
	if err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest, authNiceMessage,
			"request body could not be read"))
		return
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		s.fail(c, response.NewFailure(http.StatusBadRequest, authNiceMessage,
			"request body could not be parsed as JSON"))
		return
	}

	raw, present := data["authKey"]
	if !present || raw == nil {
		s.fail(c, response.NewFailure(http.StatusUnauthorized, authNiceMessage,
			"JSON was missing authentication key"))
		return
	}

	// a present but wrong-typed key is an invalid key, not a missing one
	authKey, ok := raw.(string)
	if !ok {
		s.fail(c, response.NewFailure(http.StatusUnauthorized, authNiceMessage,
			"authentication key is invalid"))
		return
	}

	live, err := s.auth.CheckAuth(c.Request.Context(), authKey)
	if err != nil {
		// the store error goes to the log only, never to the caller
		s.logger.Error(c.Request.Context(), "session liveness check failed", "error", err)
		response.NewFailure(http.StatusBadGateway, authNiceMessage,
			"exception occurred when querying the session store").Write(c)
		return
	}
	if !live {
		s.fail(c, response.NewFailure(http.StatusUnauthorized, authNiceMessage,
			"authentication key is invalid"))
		return
	}

	c.Next()
}

// requireValidation runs the route's payload validator against the request
// body and short-circuits on the first failing field.
func (s *Server) requireValidation(v *request.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := requestBody(c)
		if err != nil {
			s.fail(c, response.NewFailure(http.StatusBadRequest, authNiceMessage,
				"request body could not be read"))
			return
		}
		if f := v.Validate(body); f != nil {
			s.fail(c, f)
			return
		}
		c.Next()
	}
}
