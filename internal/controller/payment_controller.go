package controller

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/learnifypk/backend/config"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/service"
	"github.com/rs/zerolog/log"
)

// gatewayFormTmpl posts the hidden fields to the gateway as soon as the
// page loads. The noscript button covers browsers with scripting disabled.
var gatewayFormTmpl = template.Must(template.New("gateway").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment...</title></head>
<body onload="document.getElementById('gateway-form').submit();">
<form id="gateway-form" method="POST" action="{{.Endpoint}}">
{{- range $name, $value := .Fields}}
<input type="hidden" name="{{$name}}" value="{{$value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>`))

type PaymentController struct {
	paymentSvc service.PaymentService
	cfg        *config.Config
}

func NewPaymentController(paymentSvc service.PaymentService, cfg *config.Config) *PaymentController {
	return &PaymentController{paymentSvc: paymentSvc, cfg: cfg}
}

func (ctrl *PaymentController) RegisterRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	payments.POST("/initiate", ctrl.InitiateHandler)
	payments.GET("/mine", ctrl.ListMineHandler)
	payments.GET("/:payment_id", ctrl.GetHandler)

	easypay := payments.Group("/easypay")
	easypay.GET("/start/:payment_id", ctrl.StartRedirectHandler)
	// The gateway bounces the browser back with GET or POST depending on
	// integration mode, so both are accepted on the handler endpoints.
	easypay.GET("/token-handler", ctrl.TokenHandler)
	easypay.POST("/token-handler", ctrl.TokenHandler)
	easypay.GET("/status-handler", ctrl.StatusHandler)
	easypay.POST("/status-handler", ctrl.StatusHandler)
}

func (ctrl *PaymentController) InitiateHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PaymentInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind PaymentInitiateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.paymentSvc.Initiate(user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (ctrl *PaymentController) StartRedirectHandler(c *gin.Context) {
	form, err := ctrl.paymentSvc.GatewayRedirect(c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.renderForm(c, form)
}

func (ctrl *PaymentController) TokenHandler(c *gin.Context) {
	token := firstParam(c, "auth_token", "authToken", "token")
	form, err := ctrl.paymentSvc.ConfirmForm(token, c.Query("pid"))
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.renderForm(c, form)
}

// StatusHandler is the gateway's final delivery. It must never error at the
// browser: whatever the callback contained, the user lands on the frontend
// result page with the resolved outcome in the query string.
func (ctrl *PaymentController) StatusHandler(c *gin.Context) {
	params := mergedParams(c)
	outcome := ctrl.paymentSvc.HandleStatusCallback(params)

	resultURL := ctrl.cfg.Frontend.PaymentResultURL
	if resultURL == "" {
		c.JSON(http.StatusOK, outcome)
		return
	}

	q := url.Values{}
	q.Set("status", outcome.Status)
	q.Set("desc", outcome.Description)
	if outcome.PaymentID != "" {
		q.Set("pid", outcome.PaymentID)
	}
	if outcome.OrderRef != "" {
		q.Set("orderRef", outcome.OrderRef)
	}
	if outcome.TxnID != "" {
		q.Set("txn", outcome.TxnID)
	}
	c.Redirect(http.StatusFound, resultURL+"?"+q.Encode())
}

func (ctrl *PaymentController) ListMineHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	payments, err := ctrl.paymentSvc.ListMine(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (ctrl *PaymentController) GetHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	payment, err := ctrl.paymentSvc.Get(user, c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (ctrl *PaymentController) renderForm(c *gin.Context, form *dto.GatewayForm) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := gatewayFormTmpl.Execute(c.Writer, form); err != nil {
		log.Error().Err(err).Msg("Failed to render gateway form")
	}
}

// mergedParams flattens query and form parameters into one map; the form
// value wins when both carry the same key.
func mergedParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if err := c.Request.ParseForm(); err == nil {
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}
	return params
}

func firstParam(c *gin.Context, names ...string) string {
	params := mergedParams(c)
	for _, name := range names {
		if v := params[name]; v != "" {
			return v
		}
	}
	return ""
}
