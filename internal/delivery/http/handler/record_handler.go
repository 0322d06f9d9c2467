package handler

import (
	"encoding/json"
	"net/http"

	"family-health-dashboard/internal/converter"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/pkg/response"
	"family-health-dashboard/pkg/validator"

	"github.com/gorilla/mux"
)

// MaxPrescriptionSize bounds an uploaded prescription file.
const MaxPrescriptionSize = 10 << 20

type RecordHandler struct {
	validator *validator.CustomValidator
}

func NewRecordHandler(validator *validator.CustomValidator) *RecordHandler {
	return &RecordHandler{
		validator: validator,
	}
}

// decodeValid decodes the body into req and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (h *RecordHandler) decodeValid(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

func (h *RecordHandler) save(w http.ResponseWriter, r *http.Request, record entity.Record) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	saved, err := d.SaveRecord(r.Context(), record)
	if err != nil {
		writeMutationError(w, err, "Failed to save "+record.Kind().Label())
		return
	}
	if saved == nil {
		response.Success(w, http.StatusAccepted, "No active profile, nothing saved", nil)
		return
	}

	status := http.StatusCreated
	if mux.Vars(r)["id"] != "" {
		status = http.StatusOK
	}
	response.Success(w, status, "Saved "+record.Kind().Label(), &dto.RecordSavedResponse{
		ID:   saved.RecordID(),
		Kind: string(saved.Kind()),
	})
}

// SaveMedicine handles create (POST /medicines) and update (PUT /medicines/{id})
// @Summary Save a medicine
// @Tags Records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MedicineRequest true "Medicine Request"
// @Success 201 {object} response.Response
// @Router /medicines [post]
func (h *RecordHandler) SaveMedicine(w http.ResponseWriter, r *http.Request) {
	var req dto.MedicineRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	h.save(w, r, converter.MedicineRequestToEntity(mux.Vars(r)["id"], &req))
}

func (h *RecordHandler) SaveAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	h.save(w, r, converter.AppointmentRequestToEntity(mux.Vars(r)["id"], &req))
}

func (h *RecordHandler) SaveBloodPressure(w http.ResponseWriter, r *http.Request) {
	var req dto.BloodPressureRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	h.save(w, r, converter.BloodPressureRequestToEntity(mux.Vars(r)["id"], &req))
}

func (h *RecordHandler) SaveBloodSugar(w http.ResponseWriter, r *http.Request) {
	var req dto.BloodSugarRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	h.save(w, r, converter.BloodSugarRequestToEntity(mux.Vars(r)["id"], &req))
}

// TakeDose handles taking one dose
// @Summary Take a dose
// @Description Takes one unit from stock and logs the dose; no-op when out of stock
// @Tags Records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 201 {object} response.Response
// @Success 200 {object} response.Response
// @Router /medicines/{id}/doses [post]
func (h *RecordHandler) TakeDose(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	doseLog, err := d.TakeDose(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeMutationError(w, err, "Failed to record dose")
		return
	}
	if doseLog == nil {
		response.Success(w, http.StatusOK, "Out of stock, no dose taken", nil)
		return
	}

	response.Success(w, http.StatusCreated, "Dose recorded", converter.DoseLogsToResponses([]entity.DoseLog{*doseLog})[0])
}

func (h *RecordHandler) UploadPrescription(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPrescriptionSize)
	if err := r.ParseMultipartForm(MaxPrescriptionSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	url, err := d.UploadPrescription(r.Context(), header.Filename, file)
	if err != nil {
		writeMutationError(w, err, "Failed to upload prescription")
		return
	}
	if url == "" {
		response.Success(w, http.StatusAccepted, "No active profile, nothing stored", nil)
		return
	}

	response.Success(w, http.StatusCreated, "Prescription uploaded", &dto.PrescriptionResponse{URL: url})
}
