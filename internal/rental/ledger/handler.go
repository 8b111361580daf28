package ledger

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/clients/:client_id/ledger", h.ClientLedger)
	r.GET("/ledger/balances", h.Balances)
	r.GET("/ledger/timeline", h.Timeline)
	r.GET("/summary", h.Summary)
	r.GET("/ledger/export/csv", h.ExportCSV)
	r.GET("/ledger/export/xlsx", h.ExportXLSX)
}

func (h *Handler) ClientLedger(c *gin.Context) {
	res, err := h.svc.ClientLedger(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Balances(c *gin.Context) {
	res, err := h.svc.Balances(c.Request.Context(), optQuery(c, "client_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Timeline(c *gin.Context) {
	res, err := h.svc.Timeline(c.Request.Context(), optQuery(c, "client_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Summary(c *gin.Context) {
	res, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	rows, err := h.svc.BackupRows(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		c.JSON(http.StatusInternalServerError, apiErr(CodeInternal, err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ledger-backup.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	rows, err := h.svc.BackupRows(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}

	f, err := BuildWorkbook(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiErr(CodeInternal, err.Error()))
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, apiErr(CodeInternal, err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ledger-backup.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func optQuery(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
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
