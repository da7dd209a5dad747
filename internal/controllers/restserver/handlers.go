package restserver

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/polarviz/icesheet/internal/constants"
	"github.com/polarviz/icesheet/internal/log"
	"github.com/polarviz/icesheet/pkg/icesheet"
	"github.com/polarviz/icesheet/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetDetails handles requests for the fixed detail statistics of an ice sheet
func (h *Handlers) GetDetails(w http.ResponseWriter, req *http.Request) {
	rawSheet := mux.Vars(req)["iceSheet"]

	if strings.TrimSpace(rawSheet) == "" {
		h.sendError(w, req, errCodeInvalidInput,
			"Ice sheet parameter cannot be null or empty. Valid values: "+icesheet.SheetValues)
		return
	}

	sheet, err := icesheet.ParseSheet(rawSheet)
	if err != nil {
		h.sendError(w, req, errCodeInvalidIceSheet,
			fmt.Sprintf("Invalid ice sheet type: '%s'. Valid values: %s", rawSheet, icesheet.SheetValues))
		return
	}

	details, err := h.controller.Engine.GetDetailStatistics(sheet)
	if err != nil {
		h.sendInternalError(w, req, err)
		return
	}

	h.formatter.WriteResponse(w, req, details)
}

// GetVisualization handles requests for a mass loss projection over a period
func (h *Handlers) GetVisualization(w http.ResponseWriter, req *http.Request) {
	rawSheet := mux.Vars(req)["iceSheet"]
	rawPeriod := req.URL.Query().Get("period")

	if strings.TrimSpace(rawSheet) == "" {
		h.sendError(w, req, errCodeInvalidInput,
			"Ice sheet parameter cannot be null or empty. Valid values: "+icesheet.SheetValues)
		return
	}

	if strings.TrimSpace(rawPeriod) == "" {
		h.sendError(w, req, errCodeInvalidInput,
			"Period parameter cannot be null or empty. Valid values: "+icesheet.PeriodValues)
		return
	}

	sheet, err := icesheet.ParseSheet(rawSheet)
	if err != nil {
		h.sendError(w, req, errCodeInvalidParameter,
			fmt.Sprintf("Invalid ice sheet type: '%s'. Valid values: %s", rawSheet, icesheet.SheetValues))
		return
	}

	period, err := icesheet.ParsePeriod(rawPeriod)
	if err != nil {
		h.sendError(w, req, errCodeInvalidParameter,
			fmt.Sprintf("Invalid time period: '%s'. Valid values: %s", rawPeriod, icesheet.PeriodValues))
		return
	}

	stats, err := h.controller.Engine.CalculateMassLoss(sheet, period)
	if err != nil {
		// Selectors were parsed above, so the engine should not reject
		// them again. Map its typed errors anyway.
		if errors.Is(err, icesheet.ErrInvalidIceSheet) || errors.Is(err, icesheet.ErrInvalidTimePeriod) {
			h.sendError(w, req, errCodeInvalidParameter, err.Error())
			return
		}
		h.sendInternalError(w, req, err)
		return
	}

	h.formatter.WriteResponse(w, req, stats)
}

// GetHealth reports service status and the aggregate request counters
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	snapshot := h.controller.Counters.Snapshot()

	h.formatter.WriteResponse(w, req, healthResponse{
		Status:                    "UP",
		TotalCalculatorRequests:   snapshot.Calculations,
		CurrentConcurrentRequests: snapshot.Concurrent,
		TotalDataServiceRequests:  snapshot.Calculations + snapshot.DetailLookups,
	})
}

// GetAPIInfo serves a connectivity check response describing the API
func (h *Handlers) GetAPIInfo(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, apiInfoResponse{
		Message: "Ice Sheet Visualization API",
		Status:  "running",
		Endpoints: []string{
			"/api/icesheet/{GREENLAND|ANTARCTICA}/details",
			"/api/icesheet/{GREENLAND|ANTARCTICA}/visualization?period={ANNUAL|DECADE|CENTURY}",
			"/api/icesheet/health",
		},
	})
}

// ServeIndexTemplate serves the visualization frontend HTML
func (h *Handlers) ServeIndexTemplate(w http.ResponseWriter, req *http.Request) {
	view := htmltemplate.Must(htmltemplate.New("index.html.tmpl").ParseFS(*h.controller.FS, "index.html.tmpl"))

	templateData := struct {
		PageTitle string
		AboutHTML htmltemplate.HTML
		Version   string
	}{
		PageTitle: h.controller.restConfig.Site.PageTitle,
		AboutHTML: htmltemplate.HTML(h.controller.restConfig.Site.AboutHTML),
		Version:   constants.Version,
	}

	w.Header().Set("Content-Type", "text/html")
	err := view.Execute(w, templateData)
	if err != nil {
		log.Error("error executing index template:", err)
		return
	}
}

// sendError writes a 400 response with the standard error body
func (h *Handlers) sendError(w http.ResponseWriter, req *http.Request, code string, message string) {
	h.sendErrorWithStatus(w, req, http.StatusBadRequest, code, message)
}

// sendInternalError logs the error and writes a 500 response
func (h *Handlers) sendInternalError(w http.ResponseWriter, req *http.Request, err error) {
	log.Errorf("internal error handling %s: %v", req.URL.Path, err)
	h.sendErrorWithStatus(w, req, http.StatusInternalServerError, errCodeInternal,
		"An unexpected error occurred while processing the request. Please try again later.")
}

func (h *Handlers) sendErrorWithStatus(w http.ResponseWriter, req *http.Request, statusCode int, code string, message string) {
	h.formatter.WriteResponseWithStatus(w, req, statusCode, errorResponse{
		Error:     code,
		Message:   message,
		Path:      req.URL.Path,
		Timestamp: time.Now().UnixMilli(),
	})
}
