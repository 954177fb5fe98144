package restserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kwiles/skylight/internal/constants"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"github.com/kwiles/skylight/pkg/responseformat"
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

// SensorResponse is one sensor with its latest computed reading, if any.
type SensorResponse struct {
	Name          string         `json:"name"`
	UniqueID      string         `json:"unique_id"`
	Mode          string         `json:"mode"`
	WeatherEntity string         `json:"weather_entity,omitempty"`
	Reading       *types.Reading `json:"reading,omitempty"`
}

func (h *Handlers) sensorResponse(cfg config.SensorData) SensorResponse {
	resp := SensorResponse{
		Name:          cfg.Name,
		UniqueID:      cfg.UniqueID,
		Mode:          cfg.Mode,
		WeatherEntity: cfg.WeatherEntity,
	}
	if r, ok := h.controller.latestReading(cfg.Name); ok {
		resp.Reading = &r
	}
	return resp
}

// GetSensors returns all configured sensors with their latest readings
func (h *Handlers) GetSensors(w http.ResponseWriter, req *http.Request) {
	sensors := make([]SensorResponse, 0, len(h.controller.Sensors))
	for _, cfg := range h.controller.Sensors {
		sensors = append(sensors, h.sensorResponse(cfg))
	}
	if err := h.formatter.WriteResponse(w, req, sensors, nil); err != nil {
		h.controller.logger.Errorf("error writing sensors response: %v", err)
	}
}

// GetSensor returns a single sensor by name
func (h *Handlers) GetSensor(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	cfg, ok := h.controller.sensorConfig(name)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, "unknown sensor: "+name)
		return
	}
	if err := h.formatter.WriteResponse(w, req, h.sensorResponse(cfg), nil); err != nil {
		h.controller.logger.Errorf("error writing sensor response: %v", err)
	}
}

// GetState returns the stored upstream state of an entity
func (h *Handlers) GetState(w http.ResponseWriter, req *http.Request) {
	entity := mux.Vars(req)["entity"]
	st, ok := h.controller.states.Get(entity)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, "unknown entity: "+entity)
		return
	}
	if err := h.formatter.WriteResponse(w, req, st, nil); err != nil {
		h.controller.logger.Errorf("error writing state response: %v", err)
	}
}

// PutState stores a new upstream state for an entity. This is how the host
// feeds already-fetched weather data into the daemon.
func (h *Handlers) PutState(w http.ResponseWriter, req *http.Request) {
	entity := mux.Vars(req)["entity"]

	var st types.UpstreamState
	if err := json.NewDecoder(req.Body).Decode(&st); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid state body: "+err.Error())
		return
	}
	if st.Value == "" {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "state value is required")
		return
	}
	st.UpdatedAt = time.Now()

	h.controller.states.Set(entity, st)
	h.controller.logger.Debugw("stored upstream state", "entity", entity, "value", st.Value)

	if err := h.formatter.WriteResponse(w, req, st, nil); err != nil {
		h.controller.logger.Errorf("error writing state response: %v", err)
	}
}

// DeleteState removes an entity's state, simulating the upstream entity
// disappearing.
func (h *Handlers) DeleteState(w http.ResponseWriter, req *http.Request) {
	entity := mux.Vars(req)["entity"]
	h.controller.states.Delete(entity)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusNoContent)
}

// GetLocation returns the current observer location
func (h *Handlers) GetLocation(w http.ResponseWriter, req *http.Request) {
	loc := h.controller.location.Get()
	if err := h.formatter.WriteResponse(w, req, loc, nil); err != nil {
		h.controller.logger.Errorf("error writing location response: %v", err)
	}
}

// PutLocation replaces the observer location used by all sensors
func (h *Handlers) PutLocation(w http.ResponseWriter, req *http.Request) {
	var loc config.LocationData
	if err := json.NewDecoder(req.Body).Decode(&loc); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid location body: "+err.Error())
		return
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "latitude out of range [-90, 90]")
		return
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "longitude out of range [-180, 180]")
		return
	}

	h.controller.location.Set(loc)
	h.controller.logger.Infow("observer location updated",
		"latitude", loc.Latitude, "longitude", loc.Longitude, "elevation", loc.Elevation)

	if err := h.formatter.WriteResponse(w, req, loc, nil); err != nil {
		h.controller.logger.Errorf("error writing location response: %v", err)
	}
}

// HealthResponse reports process liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Started bool   `json:"started"`
	Version string `json:"version"`
}

// GetHealth returns liveness information
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Started: h.controller.readiness.Started(),
		Version: constants.Version,
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.controller.logger.Errorf("error writing health response: %v", err)
	}
}
