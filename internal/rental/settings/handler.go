package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/settings/locale", h.GetLocale)
	r.PUT("/settings/locale", h.PutLocale)
}

type localeDTO struct {
	Locale string `json:"locale" binding:"required"`
}

func (h *Handler) GetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, localeDTO{Locale: string(h.svc.Locale())})
}

func (h *Handler) PutLocale(c *gin.Context) {
	var req localeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	loc, err := h.svc.SetLocale(c.Request.Context(), req.Locale)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, localeDTO{Locale: string(loc)})
}

type errDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func apiErr(code Code, msg string) errDTO {
	var e errDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func apiErrFrom(err error) errDTO {
	if api, ok := err.(*APIError); ok {
		return apiErr(api.Code, api.Message)
	}
	return apiErr(CodeInternal, err.Error())
}
