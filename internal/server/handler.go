package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	"github.com/microservicios/go-jwt-claims/core"
	jwtclaimsgin "github.com/microservicios/go-jwt-claims/framework/gin"
)

// whoamiClaims are bound to GET /whoami.
var whoamiClaims = []core.Binding{
	jwtclaims.String("sub"),
	jwtclaims.String("role", jwtclaims.Optional()),
	jwtclaims.Int64("n", jwtclaims.Optional()),
}

type Handler struct {
	resolver  *core.Resolver
	extractor jwtclaims.HeaderExtractor
}

func NewHandler(resolver *core.Resolver, extractor jwtclaims.HeaderExtractor) *Handler {
	return &Handler{
		resolver:  resolver,
		extractor: extractor,
	}
}

type whoamiResponse struct {
	Subject string  `json:"sub"`
	Role    *string `json:"role,omitempty"`
	N       *int64  `json:"n,omitempty"`
}

func (h *Handler) Whoami(c *gin.Context) {
	sub, err := jwtclaimsgin.GetClaim[string](c, "sub")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	resp := whoamiResponse{Subject: sub}
	if role, ok := jwtclaimsgin.LookupClaim[string](c, "role"); ok {
		resp.Role = &role
	}
	if n, ok := jwtclaimsgin.LookupClaim[int64](c, "n"); ok {
		resp.N = &n
	}

	c.JSON(http.StatusOK, resp)
}

type inspection struct {
	Status string `json:"status"`
	Value  any    `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type inspectResponse struct {
	Document core.Document         `json:"document"`
	Claims   map[string]inspection `json:"claims"`
}

// Inspect reports the decoded payload and, for every ?claim= name, whether the
// claim is present and why it is not.
func (h *Handler) Inspect(c *gin.Context) {
	ctx := c.Request.Context()
	header := h.extractor(c.Request)

	names := c.QueryArray("claim")
	for _, name := range names {
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "claim names cannot be empty"})
			return
		}
	}

	payload, err := h.resolver.Decode(ctx, header, names...)
	if err != nil {
		status, body := jwtclaims.ErrorResponse(err)
		c.JSON(status, body)
		return
	}

	claims := make(map[string]inspection, len(names))
	for _, name := range names {
		outcome := core.Structured[any](name, core.Optional()).ExtractFrom(payload)

		result := inspection{Status: outcome.Status.String()}
		if outcome.Present() {
			result.Value = outcome.Value
		}
		if outcome.Reason != nil {
			result.Reason = outcome.Reason.Error()
		}
		claims[name] = result
	}

	c.JSON(http.StatusOK, inspectResponse{Document: payload.Document, Claims: claims})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
