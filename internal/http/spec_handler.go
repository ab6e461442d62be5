package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/domain/dto"
	"github.com/guttosm/image-proxy/internal/i18n"
	"github.com/guttosm/image-proxy/internal/middleware"
	"github.com/guttosm/image-proxy/internal/service"
)

// SpecHandler builds and describes transform tokens.
type SpecHandler struct {
	loggingService service.LoggingService
}

// NewSpecHandler creates a new SpecHandler. loggingService may be nil.
func NewSpecHandler(loggingService service.LoggingService) *SpecHandler {
	return &SpecHandler{loggingService: loggingService}
}

// CreateSpec handles POST /api/specs requests.
//
// @Summary      Encode a transform token
// @Description  Validates an ordered list of steps and returns the token to use in /image/{spec}/{url}. When a source URL is given the response also carries a ready-to-use path.
// @Tags         Specs
// @Accept       json
// @Produce      json
// @Param        request body dto.SpecRequest true "Transformation steps"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      201 {object} dto.SuccessResponse{data=dto.SpecResponse} "Token created"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid steps"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Security     BearerAuth
// @Router       /api/specs [post]
func (h *SpecHandler) CreateSpec(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.SpecRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidSpec, map[string]string{ve.Field: ve.Message}, err)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidSpec, err)
		return
	}

	token, err := service.EncodeSpec(spec)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidSpec, err)
		return
	}

	resp := dto.SpecResponse{
		Token: token,
		Steps: dto.StepsFromSpec(spec),
	}
	if req.Source != "" {
		resp.Path = ImagePathPrefix + token + "/" + url.PathEscape(req.Source)
	}

	middleware.AuditLog(h.loggingService, c, "spec.create", "Transform token created", map[string]interface{}{
		"steps": spec.KindNames(),
	})

	builder.SuccessCreated(resp)
}

// DescribeSpec handles GET /api/specs/:token requests.
//
// @Summary      Decode a transform token
// @Description  Returns the ordered steps carried by a token.
// @Tags         Specs
// @Produce      json
// @Param        token path string true "Transform token"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=dto.SpecResponse} "Decoded steps"
// @Failure      400 {object} dto.ErrorResponse "Bad request - malformed token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/specs/{token} [get]
func (h *SpecHandler) DescribeSpec(c *gin.Context) {
	builder := NewResponseBuilder(c)
	token := c.Param("token")

	spec, err := service.DescribeSpec(token)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidSpec, err)
		return
	}

	builder.SuccessOK(dto.SpecResponse{
		Token: token,
		Steps: dto.StepsFromSpec(spec),
	})
}
